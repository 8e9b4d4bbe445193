package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Queries            *prometheus.CounterVec // labels: query, outcome
	ExceptionOverrides prometheus.Counter
	QueryDuration      *prometheus.HistogramVec

	TableReloads     *prometheus.CounterVec // result label: ok|error
	ScheduleEntries  prometheus.Gauge
	ExceptionEntries prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "station_queries_total",
			Help: "Station queries answered, by query and outcome.",
		}, []string{"query", "outcome"}),
		ExceptionOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "station_exception_overrides_total",
			Help: "Queries short-circuited by an active exception.",
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "station_query_duration_seconds",
			Help:    "Duration of station query evaluation.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}, []string{"query"}),
		TableReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "station_table_reloads_total",
			Help: "Schedule table loads, by result.",
		}, []string{"result"}),
		ScheduleEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "station_schedule_entries",
			Help: "Number of weekly schedule entries loaded.",
		}),
		ExceptionEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "station_exception_entries",
			Help: "Number of exception entries loaded.",
		}),
	}

	reg.MustRegister(
		c.Queries, c.ExceptionOverrides, c.QueryDuration,
		c.TableReloads, c.ScheduleEntries, c.ExceptionEntries,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// QueryObserve records one answered query
func (c *Collector) QueryObserve(query, outcome string, d time.Duration) {
	c.Queries.WithLabelValues(query, outcome).Inc()
	c.QueryDuration.WithLabelValues(query).Observe(d.Seconds())
	if outcome == "exception" {
		c.ExceptionOverrides.Inc()
	}
}

// ReloadObserve records a table load attempt
func (c *Collector) ReloadObserve(err error) {
	if err != nil {
		c.TableReloads.WithLabelValues("error").Inc()
		return
	}
	c.TableReloads.WithLabelValues("ok").Inc()
}

// TablesLoaded sets the loaded table sizes
func (c *Collector) TablesLoaded(schedule, exceptions int) {
	c.ScheduleEntries.Set(float64(schedule))
	c.ExceptionEntries.Set(float64(exceptions))
}
