package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetric_IsValid(t *testing.T) {
	valid := Metric{ServerType: "uccx", MetricName: "active_agents", MetricValue: 42, Unit: "count"}
	assert.True(t, valid.IsValid())

	zero := valid
	zero.MetricValue = 0
	assert.True(t, zero.IsValid(), "Zero is a legitimate measurement")

	nan := valid
	nan.MetricValue = math.NaN()
	assert.False(t, nan.IsValid())

	posInf := valid
	posInf.MetricValue = math.Inf(1)
	assert.False(t, posInf.IsValid())

	negInf := valid
	negInf.MetricValue = math.Inf(-1)
	assert.False(t, negInf.IsValid())

	noSource := valid
	noSource.ServerType = ""
	assert.False(t, noSource.IsValid())

	noName := valid
	noName.MetricName = ""
	assert.False(t, noName.IsValid())
}

func TestCollectionOutcome_TotalFetched(t *testing.T) {
	outcome := CollectionOutcome{
		PerSourceCount: map[string]int{"uccx": 12, "cucm": 8},
	}
	assert.Equal(t, 20, outcome.TotalFetched())

	assert.Equal(t, 0, CollectionOutcome{}.TotalFetched())
}
