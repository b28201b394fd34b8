package storage

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rodrigo-brito/fuelchart/model"
)

// sampleRecord 数据表中的一行，(date, series) 唯一
type sampleRecord struct {
	ID     int64     `gorm:"primaryKey;autoIncrement"`
	Date   time.Time `gorm:"uniqueIndex:idx_samples_date_series"`
	Series string    `gorm:"uniqueIndex:idx_samples_date_series"`
	Value  float64
}

func (sampleRecord) TableName() string {
	return "samples"
}

// SQL 基于 gorm 的存储
type SQL struct {
	db *gorm.DB
}

// FromSQL creates a new SQL connection that persists samples to the database
// eg: storage.FromSQL(sqlite.Open("samples.db"))
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (Storage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&sampleRecord{}); err != nil {
		return nil, err
	}

	return &SQL{db: db}, nil
}

// CreateSamples 批量写入数据点，已存在的 (date, series) 只更新数值
func (s *SQL) CreateSamples(samples []model.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	records := make([]sampleRecord, len(samples))
	for i, sample := range samples {
		records[i] = sampleRecord{
			Date:   sample.Timestamp.UTC(),
			Series: sample.SeriesKey,
			Value:  sample.Value,
		}
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "series"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).CreateInBatches(records, 500).Error
}

// Samples 按日期和写入顺序返回满足条件的数据点
func (s *SQL) Samples(filters ...SampleFilter) ([]model.Sample, error) {
	var records []sampleRecord
	if result := s.db.Order("date, id").Find(&records); result.Error != nil {
		return nil, result.Error
	}

	samples := make([]model.Sample, 0, len(records))
	for _, record := range records {
		sample := model.Sample{
			Timestamp: record.Date.UTC(),
			SeriesKey: record.Series,
			Value:     record.Value,
		}
		if match(sample, filters) {
			samples = append(samples, sample)
		}
	}
	return samples, nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
