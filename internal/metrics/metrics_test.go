package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersAndGauges(t *testing.T) {
	r := NewRegistry()

	r.Inc(MetricTicks)
	r.Inc(MetricTicks)
	r.Add(MetricInputPolls, 50)
	r.SetGauge(MetricGaugeProgress, 42)

	assert.Equal(t, uint64(2), r.Counter(MetricTicks))
	assert.Equal(t, uint64(50), r.Counter(MetricInputPolls))
	assert.Equal(t, int64(42), r.Gauge(MetricGaugeProgress))
	assert.Equal(t, uint64(0), r.Counter("missing"))
}

func TestSnapshotIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Inc(MetricTicks)
	r.SetGauge(MetricGaugeArmed, 1)

	s := r.Snapshot()
	r.Inc(MetricTicks)
	r.SetGauge(MetricGaugeArmed, 0)

	assert.Equal(t, uint64(1), s.Counters[MetricTicks])
	assert.Equal(t, int64(1), s.Gauges[MetricGaugeArmed])
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Inc("b")
	r.Inc("a")
	r.SetGauge("c", 1)

	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Inc(MetricTicks)
				r.SetGauge(MetricGaugeProgress, int64(j))
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), r.Counter(MetricTicks))
}
