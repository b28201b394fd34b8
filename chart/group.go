package chart

import (
	"github.com/StudioSol/set"

	"github.com/rodrigo-brito/fuelchart/model"
)

// Group 同一序列键的数据点，按出现顺序排列
type Group struct {
	Key     string
	Samples []model.Sample
}

// Last returns the final sample of the group
func (g Group) Last() model.Sample {
	return g.Samples[len(g.Samples)-1]
}

// Values returns the values of the group in order
func (g Group) Values() model.Series[float64] {
	values := make(model.Series[float64], len(g.Samples))
	for i, sample := range g.Samples {
		values[i] = sample.Value
	}
	return values
}

// GroupBySeries 按序列键分组，保留键第一次出现的顺序
// GroupBySeries groups samples by series key. Keys keep their first-seen order and samples
// keep their order of appearance inside each group.
func GroupBySeries(dataset model.Dataset) []Group {
	keys := set.NewLinkedHashSetString()
	samplesByKey := make(map[string][]model.Sample)
	for _, sample := range dataset {
		keys.Add(sample.SeriesKey)
		samplesByKey[sample.SeriesKey] = append(samplesByKey[sample.SeriesKey], sample)
	}

	groups := make([]Group, 0, len(samplesByKey))
	for key := range keys.Iter() {
		groups = append(groups, Group{Key: key, Samples: samplesByKey[key]})
	}
	return groups
}
