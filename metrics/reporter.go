package metrics

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/uber-go/tally"
)

// Reporter is a tally reporter that keeps running totals in memory so they
// can be served over HTTP
type Reporter struct {
	mu         sync.RWMutex
	counters   map[string]int64
	gauges     map[string]float64
	timers     map[string]TimerSummary
	histograms map[string]int64
}

type TimerSummary struct {
	Count int64         `json:"count"`
	Total time.Duration `json:"total_ns"`
	Max   time.Duration `json:"max_ns"`
}

// Summary is a point-in-time copy of all reported values
type Summary struct {
	Counters   map[string]int64        `json:"counters"`
	Gauges     map[string]float64      `json:"gauges"`
	Timers     map[string]TimerSummary `json:"timers"`
	Histograms map[string]int64        `json:"histograms"`
}

type capabilities struct{}

func (capabilities) Reporting() bool { return true }
func (capabilities) Tagging() bool   { return true }

func NewReporter() *Reporter {
	return &Reporter{
		counters:   map[string]int64{},
		gauges:     map[string]float64{},
		timers:     map[string]TimerSummary{},
		histograms: map[string]int64{},
	}
}

// NewRootScope returns a scope flushing into a new Reporter every interval.
// Closing the returned closer stops the reporting loop.
func NewRootScope(prefix string, interval time.Duration) (tally.Scope, *Reporter, io.Closer) {
	r := NewReporter()
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   prefix,
		Reporter: r,
	}, interval)
	return scope, r, closer
}

func (r *Reporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[key(name, tags)] += value
}

func (r *Reporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gauges[key(name, tags)] = value
}

func (r *Reporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(name, tags)
	t := r.timers[k]
	t.Count++
	t.Total += interval
	if interval > t.Max {
		t.Max = interval
	}
	r.timers[k] = t
}

func (r *Reporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	_ float64,
	_ float64,
	samples int64,
) {
	r.addSamples(name, tags, samples)
}

func (r *Reporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	_ time.Duration,
	_ time.Duration,
	samples int64,
) {
	r.addSamples(name, tags, samples)
}

func (r *Reporter) addSamples(name string, tags map[string]string, samples int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.histograms[key(name, tags)] += samples
}

func (r *Reporter) Capabilities() tally.Capabilities {
	return capabilities{}
}

func (r *Reporter) Flush() {}

func (r *Reporter) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{
		Counters:   make(map[string]int64, len(r.counters)),
		Gauges:     make(map[string]float64, len(r.gauges)),
		Timers:     make(map[string]TimerSummary, len(r.timers)),
		Histograms: make(map[string]int64, len(r.histograms)),
	}
	for k, v := range r.counters {
		s.Counters[k] = v
	}
	for k, v := range r.gauges {
		s.Gauges[k] = v
	}
	for k, v := range r.timers {
		s.Timers[k] = v
	}
	for k, v := range r.histograms {
		s.Histograms[k] = v
	}
	return s
}

// key renders name{k1=v1,k2=v2} with tags sorted
func key(name string, tags map[string]string) string {
	if len(tags) == 0 {
		return name
	}

	pairs := make([]string, 0, len(tags))
	for k, v := range tags {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}
