package metrics

import "time"

// ReloadOutcome enumerates reload results for counters.
type ReloadOutcome string

const (
	ReloadSuccess  ReloadOutcome = "success"
	ReloadFailed   ReloadOutcome = "failed"
	ReloadCanceled ReloadOutcome = "canceled"
)

// Recorder defines observability hooks for index reloads and request handling.
type Recorder interface {
	ObserveReloadDuration(trigger string, d time.Duration)
	IncReloadOutcome(trigger string, outcome ReloadOutcome)
	SetIndexedPages(n int)
	SetSlugCollisions(n int)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveReloadDuration(string, time.Duration)   {}
func (NoopRecorder) IncReloadOutcome(string, ReloadOutcome)        {}
func (NoopRecorder) SetIndexedPages(int)                           {}
func (NoopRecorder) SetSlugCollisions(int)                         {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}
