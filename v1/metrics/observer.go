package metrics

import (
	"github.com/yugabyte/yb-vectorstore/v1/observability"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var _ observability.Observer = (*Metrics)(nil)

// ObserveOperation records one completed operation: a status-labelled count,
// its latency and, when Size is set, the number of rows handled.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	if m == nil {
		return
	}

	status := statusSuccess
	if ctx.Error != nil {
		status = statusError
	}

	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	if ctx.Size > 0 && ctx.Error == nil {
		m.operationRows.WithLabelValues(ctx.Component, ctx.Operation, ctx.Resource).Add(float64(ctx.Size))
	}
}
