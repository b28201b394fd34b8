package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigo-brito/fuelchart/model"
	"github.com/rodrigo-brito/fuelchart/storage"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func columns() model.Columns {
	return model.DefaultSettings().Columns
}

func TestReadRows(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		content := "month,fuel_type,number\n2016-01-01,Petrol,4024\n2016-01-01,Diesel, 517\n"
		rows, err := ReadRows(strings.NewReader(content), columns())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, model.RawRow{Date: "2016-01-01", SeriesKey: "Diesel", Value: "517"}, rows[1])
	})

	t.Run("columns in another order", func(t *testing.T) {
		content := "\ufeffnumber,extra,month,fuel_type\n4024,x,2016-01-01,Petrol\n"
		rows, err := ReadRows(strings.NewReader(content), columns())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, model.RawRow{Date: "2016-01-01", SeriesKey: "Petrol", Value: "4024"}, rows[0])
	})

	t.Run("without header", func(t *testing.T) {
		content := "2016-01-01,Petrol,4024\n2016-02-01,Petrol,3744\n"
		rows, err := ReadRows(strings.NewReader(content), columns())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2016-02-01", rows[1].Date)
	})

	t.Run("custom column names", func(t *testing.T) {
		content := "date,type,count\n2016-01-01,Petrol,4024\n"
		rows, err := ReadRows(strings.NewReader(content), model.Columns{Date: "date", Series: "type", Value: "count"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "4024", rows[0].Value)
	})

	t.Run("missing column", func(t *testing.T) {
		content := "month,fuel_type\n2016-01-01,Petrol\n"
		_, err := ReadRows(strings.NewReader(content), columns())
		require.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("short row", func(t *testing.T) {
		content := "month,fuel_type,number\n2016-01-01,Petrol,4024\n2016-02-01,Petrol\n"
		_, err := ReadRows(strings.NewReader(content), columns())
		require.ErrorIs(t, err, model.ErrParse)
	})

	t.Run("empty", func(t *testing.T) {
		rows, err := ReadRows(strings.NewReader(""), columns())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestMerge(t *testing.T) {
	petrol := model.Dataset{
		{Timestamp: date(2020, 1, 1), SeriesKey: "Petrol", Value: 1},
		{Timestamp: date(2020, 2, 1), SeriesKey: "Petrol", Value: 2},
		{Timestamp: date(2020, 3, 1), SeriesKey: "Petrol", Value: 3},
	}
	electric := model.Dataset{
		{Timestamp: date(2020, 2, 1), SeriesKey: "Electric", Value: 20},
		{Timestamp: date(2020, 4, 1), SeriesKey: "Electric", Value: 40},
	}

	merged := Merge(petrol, electric)
	require.Len(t, merged, 5)
	expected := []model.Sample{
		petrol[0], electric[0], petrol[1], petrol[2], electric[1],
	}
	assert.Equal(t, expected, []model.Sample(merged))
}

func TestLimit(t *testing.T) {
	dataset := model.Dataset{
		{Timestamp: date(2019, 1, 1), SeriesKey: "Petrol", Value: 1},
		{Timestamp: date(2019, 12, 1), SeriesKey: "Petrol", Value: 2},
		{Timestamp: date(2020, 1, 1), SeriesKey: "Petrol", Value: 3},
	}

	limited, err := Limit(dataset, "31d")
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, date(2019, 12, 1), limited[0].Timestamp)

	_, err = Limit(dataset, "forever")
	require.Error(t, err)
}

func TestWindow(t *testing.T) {
	db, err := storage.FromMemory()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.CreateSamples([]model.Sample{
		{Timestamp: date(2019, 1, 1), SeriesKey: "Petrol", Value: 1},
		{Timestamp: date(2019, 12, 1), SeriesKey: "Petrol", Value: 2},
		{Timestamp: date(2020, 1, 1), SeriesKey: "Petrol", Value: 3},
	}))
	source := storage.NewFeed(db)

	dataset, err := Window(source, "31d").Dataset(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset, 2)
	assert.Equal(t, date(2019, 12, 1), dataset[0].Timestamp)

	require.Equal(t, source, Window(source, ""))

	_, err = Window(source, "forever").Dataset(context.Background())
	require.Error(t, err)
}

func TestCSVFeed_Dataset(t *testing.T) {
	dir := t.TempDir()
	petrol := filepath.Join(dir, "petrol.csv")
	electric := filepath.Join(dir, "electric.csv")
	broken := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(petrol, []byte("month,fuel_type,number\n2020-01-01,Petrol,10\n2020-02-01,Petrol,12\n"), 0o644))
	require.NoError(t, os.WriteFile(electric, []byte("month,fuel_type,number\n2020-01-01,Electric,1\n2020-02-01,Electric,3\n"), 0o644))
	require.NoError(t, os.WriteFile(broken, []byte("month,fuel_type,number\n2020-01-01,Electric,many\n"), 0o644))

	t.Run("single file keeps order", func(t *testing.T) {
		dataset, err := NewCSVFeed([]Source{{File: petrol}}).Dataset(context.Background())
		require.NoError(t, err)
		require.Len(t, dataset, 2)
		assert.Equal(t, 12.0, dataset[1].Value)
	})

	t.Run("several files are merged", func(t *testing.T) {
		dataset, err := NewCSVFeed([]Source{{File: petrol}, {File: electric}}).Dataset(context.Background())
		require.NoError(t, err)
		require.Len(t, dataset, 4)
		assert.Equal(t, "Electric", dataset[0].SeriesKey)
		assert.Equal(t, "Petrol", dataset[1].SeriesKey)
		assert.Equal(t, date(2020, 2, 1), dataset[2].Timestamp)
	})

	t.Run("window", func(t *testing.T) {
		dataset, err := NewCSVFeed([]Source{{File: petrol}}, WithWindow("1d")).Dataset(context.Background())
		require.NoError(t, err)
		require.Len(t, dataset, 1)
	})

	t.Run("parse error aborts", func(t *testing.T) {
		dataset, err := NewCSVFeed([]Source{{File: petrol}, {File: broken}}).Dataset(context.Background())
		require.ErrorIs(t, err, model.ErrParse)
		assert.Nil(t, dataset)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewCSVFeed([]Source{{File: filepath.Join(dir, "nope.csv")}}).Dataset(context.Background())
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("no sources", func(t *testing.T) {
		_, err := NewCSVFeed(nil).Dataset(context.Background())
		require.Error(t, err)
	})

	t.Run("url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, electric)
		}))
		defer server.Close()

		dataset, err := NewCSVFeed([]Source{{URL: server.URL}}).Dataset(context.Background())
		require.NoError(t, err)
		require.Len(t, dataset, 2)
		assert.Equal(t, "Electric", dataset[0].SeriesKey)
	})
}
