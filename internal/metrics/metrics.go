// Package metrics wraps the Prometheus client as the pipeline driver's
// Observer, matching the counters/histograms DimaJoyti-go-coffee and
// luxfi-evm register for their own scan/detection loops.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements pipeline.Observer.
type Collector struct {
	blocksScanned      prometheus.Counter
	sandwichesDetected prometheus.Counter
	extractionErrors   prometheus.Counter
	scanDuration       prometheus.Histogram
}

// NewCollector builds a Collector and registers its metrics on reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		blocksScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sandwich_detect",
			Name:      "blocks_scanned_total",
			Help:      "Number of blocks the driver has scanned.",
		}),
		sandwichesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sandwich_detect",
			Name:      "sandwiches_detected_total",
			Help:      "Number of sandwiches confirmed and stored.",
		}),
		extractionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sandwich_detect",
			Name:      "extraction_errors_total",
			Help:      "Number of transactions whose swap extraction aborted.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sandwich_detect",
			Name:      "scan_duration_seconds",
			Help:      "Wall-clock time spent scanning one block.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.blocksScanned, c.sandwichesDetected, c.extractionErrors, c.scanDuration)
	return c
}

func (c *Collector) BlockScanned()      { c.blocksScanned.Inc() }
func (c *Collector) SandwichDetected()  { c.sandwichesDetected.Inc() }
func (c *Collector) ExtractionError()   { c.extractionErrors.Inc() }
func (c *Collector) ScanDuration(d time.Duration) {
	c.scanDuration.Observe(d.Seconds())
}
