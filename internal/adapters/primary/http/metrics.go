package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/githubixx/vdrremote-go/internal/application/services"
	"github.com/githubixx/vdrremote-go/internal/domain"
)

const metricsNamespace = "vdr"

// Metrics owns the registry served on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics registers the device collector and the HTTP request metrics.
// scrapeTimeout bounds the SVDRP queries made per scrape.
func NewMetrics(status *services.StatusService, scrapeTimeout time.Duration) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
	m.registry.MustRegister(m.httpRequests, m.httpDuration, newStatusCollector(status, scrapeTimeout))
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records one observation per request, labelled by route pattern.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			status := rw.status
			if status == 0 {
				status = http.StatusOK
			}
			path := r.Pattern
			if path == "" {
				path = r.URL.Path
			}
			labels := []string{r.Method, path, strconv.Itoa(status)}
			m.httpRequests.WithLabelValues(labels...).Inc()
			m.httpDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		})
	}
}

// statusCollector takes a fresh device snapshot on every scrape.
type statusCollector struct {
	status  *services.StatusService
	timeout time.Duration

	up          *prometheus.Desc
	diskTotal   *prometheus.Desc
	diskFree    *prometheus.Desc
	diskPercent *prometheus.Desc
	recording   *prometheus.Desc
	channel     *prometheus.Desc
}

func newStatusCollector(status *services.StatusService, timeout time.Duration) *statusCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", name), help, labels, nil)
	}
	return &statusCollector{
		status:      status,
		timeout:     timeout,
		up:          desc("up", "Whether VDR answered SVDRP queries."),
		diskTotal:   desc("disk_total_megabytes", "Size of the video disk."),
		diskFree:    desc("disk_free_megabytes", "Free space on the video disk."),
		diskPercent: desc("disk_free_percent", "Free space on the video disk in percent."),
		recording:   desc("recording", "1 for the current recording state.", "state"),
		channel:     desc("channel_info", "The channel VDR is tuned to.", "number", "name"),
	}
}

func (c *statusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.diskTotal
	ch <- c.diskFree
	ch <- c.diskPercent
	ch <- c.recording
	ch <- c.channel
}

func (c *statusCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	st := c.status.Snapshot(ctx)
	if !st.Online {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.diskTotal, prometheus.GaugeValue, float64(st.DiskTotal))
	ch <- prometheus.MustNewConstMetric(c.diskFree, prometheus.GaugeValue, float64(st.DiskFree))
	ch <- prometheus.MustNewConstMetric(c.diskPercent, prometheus.GaugeValue, float64(st.DiskPercent))
	for _, state := range []domain.RecordingState{domain.RecordingNone, domain.RecordingInstant, domain.RecordingTimer} {
		v := 0.0
		if st.Recording == state {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.recording, prometheus.GaugeValue, v, state.String())
	}
	if st.ChannelNumber != "" {
		ch <- prometheus.MustNewConstMetric(c.channel, prometheus.GaugeValue, 1, st.ChannelNumber, st.ChannelName)
	}
}
