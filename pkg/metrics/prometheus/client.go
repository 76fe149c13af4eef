// Package prometheus implements metrics.Client on top of the Prometheus
// client library. Instruments are created lazily on first use: keys ending in
// ".duration" or "_seconds" become histograms, anything else a counter.
package prometheus

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/architeacher/reporting/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
)

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

var defaultBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type (
	Client struct {
		namespace string
		registry  *prometheus.Registry

		mu         sync.Mutex
		counters   map[string]*instrument[*prometheus.CounterVec]
		histograms map[string]*instrument[*prometheus.HistogramVec]
	}

	instrument[V any] struct {
		vec    V
		labels []string
	}
)

func NewClient(namespace string) *Client {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Client{
		namespace:  sanitize(namespace),
		registry:   registry,
		counters:   make(map[string]*instrument[*prometheus.CounterVec]),
		histograms: make(map[string]*instrument[*prometheus.HistogramVec]),
	}
}

func (c *Client) Inc(_ context.Context, key string, value any, attributes ...attribute.KeyValue) {
	amount, ok := toFloat(value)
	if !ok || amount < 0 {
		return
	}

	labelNames, labelValues := splitAttributes(attributes)

	if metrics.IsDuration(key) {
		hist := c.histogram(key, labelNames)
		if hist == nil {
			return
		}

		hist.vec.WithLabelValues(align(hist.labels, labelNames, labelValues)...).Observe(amount)

		return
	}

	counter := c.counter(key, labelNames)
	if counter == nil {
		return
	}

	counter.vec.WithLabelValues(align(counter.labels, labelNames, labelValues)...).Add(amount)
}

func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Client) Shutdown(_ context.Context) error {
	return nil
}

func (c *Client) counter(key string, labels []string) *instrument[*prometheus.CounterVec] {
	name := metricName(key, "_total")

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.counters[name]; ok {
		return existing
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      metrics.Describe(key).Description,
	}, labels)

	if err := c.registry.Register(vec); err != nil {
		return nil
	}

	created := &instrument[*prometheus.CounterVec]{vec: vec, labels: labels}
	c.counters[name] = created

	return created
}

func (c *Client) histogram(key string, labels []string) *instrument[*prometheus.HistogramVec] {
	name := metricName(strings.TrimSuffix(key, metrics.DurationSuffix), "_seconds")

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.histograms[name]; ok {
		return existing
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      metrics.Describe(key).Description,
		Buckets:   defaultBuckets,
	}, labels)

	if err := c.registry.Register(vec); err != nil {
		return nil
	}

	created := &instrument[*prometheus.HistogramVec]{vec: vec, labels: labels}
	c.histograms[name] = created

	return created
}

func metricName(key, suffix string) string {
	name := sanitize(key)
	if !strings.HasSuffix(name, suffix) {
		name += suffix
	}

	return name
}

func sanitize(name string) string {
	return invalidNameChars.ReplaceAllString(name, "_")
}

func splitAttributes(attributes []attribute.KeyValue) ([]string, []string) {
	names := make([]string, 0, len(attributes))
	values := make([]string, 0, len(attributes))

	for _, attr := range attributes {
		names = append(names, sanitize(string(attr.Key)))
		values = append(values, attr.Value.Emit())
	}

	return names, values
}

// align orders values by the label names an instrument was registered with.
// Missing labels become empty strings, unknown ones are dropped.
func align(registered, names, values []string) []string {
	aligned := make([]string, len(registered))

	for i, label := range registered {
		for j, name := range names {
			if name == label {
				aligned[i] = values[j]

				break
			}
		}
	}

	return aligned
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
