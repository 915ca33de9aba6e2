package simidx_test

import (
	"testing"
	"time"

	"github.com/arnegrid/simidx"
	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollectorRecord(t *testing.T) {
	m := &simidx.BasicMetricsCollector{}
	m.RecordRecord(3, 10*time.Millisecond, nil)
	m.RecordRecord(1, 20*time.Millisecond, assertErr())

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.RecordCount)
	assert.Equal(t, int64(4), stats.RecordItems)
	assert.Equal(t, int64(1), stats.RecordErrors)
}

func TestBasicMetricsCollectorClassify(t *testing.T) {
	m := &simidx.BasicMetricsCollector{}
	m.RecordClassify(2, 5, 15*time.Millisecond, nil)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.ClassifyCount)
	assert.Equal(t, int64(2), stats.ClassifyQueries)
	assert.Equal(t, int64(5), stats.ClassifyCandidates)
}

func TestNoopMetricsCollectorDoesNothing(t *testing.T) {
	var m simidx.MetricsCollector = simidx.NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		m.RecordRecord(1, time.Millisecond, nil)
		m.RecordClassify(1, 1, time.Millisecond, nil)
	})
}

func assertErr() error { return errTest }

var errTest = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
