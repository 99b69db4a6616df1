package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"path", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dashboard", Name: "handler_errors_total", Help: "Handler errors",
	})
	SaveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dashboard", Name: "save_seconds", Help: "Dashboard save latency",
		Buckets: prometheus.DefBuckets,
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dashboard", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, SaveDuration, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveSave(d time.Duration) { SaveDuration.Observe(d.Seconds()) }
