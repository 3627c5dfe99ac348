// Package observability defines the hook through which data-plane packages
// report what they did.
//
// Packages such as ybengine and vectorstore accept an optional Observer and
// call ObserveOperation once per completed operation. The metrics package
// ships a Prometheus-backed implementation; tests usually record the contexts
// in a slice.
package observability

import "time"

// Observer receives one notification per completed operation.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "vectorstore" or "ybengine".
	Component string

	// Operation is the verb, e.g. "add_texts", "delete", "similarity_search".
	Operation string

	// Resource is the primary object operated on, usually a table name.
	Resource string

	// SubResource adds optional detail such as a schema name.
	SubResource string

	Duration time.Duration

	// Error is nil on success.
	Error error

	// Size is the number of rows, documents or bytes the operation handled.
	Size int64

	Metadata map[string]interface{}
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

func (f ObserverFunc) ObserveOperation(ctx OperationContext) { f(ctx) }

// Multi fans a notification out to several observers, skipping nil entries.
func Multi(observers ...Observer) Observer {
	var list []Observer
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return multiObserver(list)
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}
