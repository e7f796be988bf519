// Package metrics records how much work the view caches do: layer builds,
// quick-match rescans and backing store loads.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Layer names reported by LayerBuilt.
const (
	LayerRaw      = "raw"
	LayerSorted   = "sorted"
	LayerFiltered = "filtered"
	LayerMatched  = "matched"
)

// Recorder receives cache activity.
type Recorder interface {
	LayerBuilt(layer string)
	Rescanned()
	BackingLoaded(ok bool)
}

// Nop discards everything.
type Nop struct{}

func (Nop) LayerBuilt(string)  {}
func (Nop) Rescanned()         {}
func (Nop) BackingLoaded(bool) {}

// Prometheus exports cache activity as counters.
type Prometheus struct {
	layers  *prometheus.CounterVec
	rescans prometheus.Counter
	loads   *prometheus.CounterVec
}

// NewPrometheus creates the counters and registers them on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		layers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view_cache",
			Name:      "layer_builds_total",
			Help:      "Derived or raw layers built, by layer.",
		}, []string{"layer"}),
		rescans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view_cache",
			Name:      "quick_match_rescans_total",
			Help:      "Quick-match scans over the filtered layer.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view_cache",
			Name:      "backing_loads_total",
			Help:      "Backing store loads, by outcome.",
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{p.layers, p.rescans, p.loads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) LayerBuilt(layer string) {
	p.layers.WithLabelValues(layer).Inc()
}

func (p *Prometheus) Rescanned() {
	p.rescans.Inc()
}

func (p *Prometheus) BackingLoaded(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	p.loads.WithLabelValues(outcome).Inc()
}

// Counting keeps counts in memory. Tests use it to assert how much work an
// operation triggered.
type Counting struct {
	Layers  map[string]int
	Rescans int
	Loads   int
	Failed  int
}

// NewCounting returns an empty Counting recorder.
func NewCounting() *Counting {
	return &Counting{Layers: map[string]int{}}
}

func (c *Counting) LayerBuilt(layer string) {
	c.Layers[layer]++
}

func (c *Counting) Rescanned() {
	c.Rescans++
}

func (c *Counting) BackingLoaded(ok bool) {
	if ok {
		c.Loads++
		return
	}
	c.Failed++
}
