package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics.
// Components report through it instead of calling slog directly so tests can
// assert on what was reported.
type API interface {
	// ReportBroken reports a component that has broken in a way that should be addressed.
	//
	// The `id` identifies the component that broke, not the specific step that failed.
	// Ids are lowercase, with dashes separating the method from its owner, ex.
	// `store.save` or `refresher.refresh-category`. Extra detail goes in params
	// or in the wrapped error.
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that does not indicate brokenness on our
	// side but is still worth looking at, ex. a category that could not be refreshed.
	ReportWarning(id string, params ...any)

	// ReportDebug reports debug information that is dropped unless debug logging is on.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the count of something at the current time. Counts are
	// points of data, they should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id and message with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}

// NopAPI drops everything.
type NopAPI struct{}

func (NopAPI) ReportBroken(string, ...any)  {}
func (NopAPI) ReportWarning(string, ...any) {}
func (NopAPI) ReportDebug(string, ...any)   {}
func (NopAPI) ReportCount(string, int64)    {}
