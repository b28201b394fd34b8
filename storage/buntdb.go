package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/buntdb"

	"github.com/rodrigo-brito/fuelchart/model"
)

const (
	samplePrefix = "sample:"
	indexPrefix  = "series:"
)

// Bunt 基于 buntdb 的存储，键为 sample:<日期>:<序号>，按键升序即为时间顺序
// Every (date, series) pair also has an index key series:<date>:<series> holding its
// sequence, so writing the same pair again replaces the stored value.
type Bunt struct {
	lastID int64
	db     *buntdb.DB
}

// FromMemory 创建内存数据库
func FromMemory() (Storage, error) {
	return newBunt(":memory:")
}

// FromFile 打开或创建本地数据库文件
func FromFile(file string) (Storage, error) {
	return newBunt(file)
}

func newBunt(sourceFile string) (Storage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, err
	}

	storage := &Bunt{db: db}

	// 恢复最后一个序号，避免重新打开文件后覆盖已有数据
	err = db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(samplePrefix+"*", func(key, _ string) bool {
			id, err := strconv.ParseInt(key[strings.LastIndex(key, ":")+1:], 10, 64)
			if err == nil && id > storage.lastID {
				storage.lastID = id
			}
			return true
		})
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

func (b *Bunt) sampleKey(sample model.Sample, id int64) string {
	return fmt.Sprintf("%s%s:%012d", samplePrefix, sample.Timestamp.UTC().Format(model.DateLayout), id)
}

func (b *Bunt) indexKey(sample model.Sample) string {
	return fmt.Sprintf("%s%s:%s", indexPrefix, sample.Timestamp.UTC().Format(model.DateLayout), sample.SeriesKey)
}

// CreateSamples writes all samples in one transaction. A sample with the same date and
// series as a stored one replaces it and keeps its position.
func (b *Bunt) CreateSamples(samples []model.Sample) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		id := b.lastID
		for _, sample := range samples {
			content, err := json.Marshal(sample)
			if err != nil {
				return err
			}

			var sampleID int64
			current, err := tx.Get(b.indexKey(sample))
			switch {
			case err == nil:
				if sampleID, err = strconv.ParseInt(current, 10, 64); err != nil {
					return fmt.Errorf("corrupted index %s: %w", b.indexKey(sample), err)
				}
			case errors.Is(err, buntdb.ErrNotFound):
				id++
				sampleID = id
				if _, _, err := tx.Set(b.indexKey(sample), strconv.FormatInt(sampleID, 10), nil); err != nil {
					return err
				}
			default:
				return err
			}

			if _, _, err := tx.Set(b.sampleKey(sample, sampleID), string(content), nil); err != nil {
				return err
			}
		}
		b.lastID = id
		return nil
	})
}

// Samples 按日期和写入顺序返回满足条件的数据点
func (b *Bunt) Samples(filters ...SampleFilter) ([]model.Sample, error) {
	samples := make([]model.Sample, 0)
	var decodeErr error
	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(samplePrefix+"*", func(_, value string) bool {
			var sample model.Sample
			if decodeErr = json.Unmarshal([]byte(value), &sample); decodeErr != nil {
				return false
			}
			sample.Timestamp = sample.Timestamp.UTC()
			if match(sample, filters) {
				samples = append(samples, sample)
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return samples, nil
}

func (b *Bunt) Close() error {
	return b.db.Close()
}
