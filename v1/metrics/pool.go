package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolCollector exports pgxpool statistics at scrape time.
type poolCollector struct {
	stat func() *pgxpool.Stat

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	max      *prometheus.Desc
	acquires *prometheus.Desc
	empty    *prometheus.Desc
	waitTime *prometheus.Desc
}

// RegisterPool exposes the statistics of a connection pool under the given name.
// stat is called on every scrape; pass pool.Stat.
func (m *Metrics) RegisterPool(name string, stat func() *pgxpool.Stat) error {
	labels := prometheus.Labels{"pool": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(m.namespace, "pool", metric), help, nil, labels)
	}

	return m.registerer.Register(&poolCollector{
		stat:     stat,
		acquired: desc("acquired_connections", "Connections currently checked out"),
		idle:     desc("idle_connections", "Idle connections in the pool"),
		total:    desc("total_connections", "Open connections in the pool"),
		max:      desc("max_connections", "Configured upper bound of the pool"),
		acquires: desc("acquires_total", "Successful acquisitions since the pool was created"),
		empty:    desc("empty_acquires_total", "Acquisitions that had to wait for a connection"),
		waitTime: desc("acquire_wait_seconds_total", "Cumulative time spent waiting for a connection"),
	})
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquires
	ch <- c.empty
	ch <- c.waitTime
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stat()
	if s == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.empty, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.waitTime, prometheus.CounterValue, s.AcquireDuration().Seconds())
}
