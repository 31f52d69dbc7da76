package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	conversionDuration prom.Histogram
	conversionOutcome  *prom.CounterVec
	blocksSubmitted    prom.Counter
	batches            *prom.CounterVec
	imageProbes        *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the conversion metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		conversionDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mcp_notion",
			Name:      "conversion_duration_seconds",
			Help:      "Duration of a Markdown to page conversion",
			Buckets:   prom.DefBuckets,
		}),
		conversionOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcp_notion",
			Name:      "conversions_total",
			Help:      "Conversions by outcome",
		}, []string{"outcome"}),
		blocksSubmitted: prom.NewCounter(prom.CounterOpts{
			Namespace: "mcp_notion",
			Name:      "blocks_submitted_total",
			Help:      "Blocks accepted by the Notion API",
		}),
		batches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcp_notion",
			Name:      "batches_total",
			Help:      "Append-children requests by result",
		}, []string{"result"}),
		imageProbes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mcp_notion",
			Name:      "image_probes_total",
			Help:      "Image reachability probes by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.conversionDuration, pr.conversionOutcome, pr.blocksSubmitted, pr.batches, pr.imageProbes)
	return pr
}

// HTTPHandler returns an http.Handler that serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) ObserveConversionDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.conversionDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncConversionOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.conversionOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddBlocksSubmitted(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.blocksSubmitted.Add(float64(n))
}

func (p *PrometheusRecorder) IncBatch(success bool) {
	if p == nil {
		return
	}
	p.batches.WithLabelValues(resultLabel(success)).Inc()
}

func (p *PrometheusRecorder) IncImageProbe(reachable bool) {
	if p == nil {
		return
	}
	res := "unreachable"
	if reachable {
		res = "reachable"
	}
	p.imageProbes.WithLabelValues(res).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
