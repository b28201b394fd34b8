package service

import (
	"context"

	"github.com/rodrigo-brito/fuelchart/model"
)

// Feeder 数据集来源：CSV 文件、远程地址或存储
// Feeder provides the dataset a chart is built from
type Feeder interface {
	Dataset(ctx context.Context) (model.Dataset, error)
}

// Store 可以被导入数据的存储
type Store interface {
	CreateSamples(samples []model.Sample) error
}
