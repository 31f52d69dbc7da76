// Package metrics records conversion outcomes. Implementations may forward to
// Prometheus; NoopRecorder is the default when metrics are not configured.
package metrics

import "time"

// Outcome labels a finished conversion.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeInputError  Outcome = "input_error"
	OutcomeRemoteError Outcome = "remote_error"
)

// Recorder defines observability hooks for the conversion pipeline.
type Recorder interface {
	ObserveConversionDuration(d time.Duration)
	IncConversionOutcome(outcome Outcome)
	AddBlocksSubmitted(n int)
	IncBatch(success bool)
	IncImageProbe(reachable bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveConversionDuration(time.Duration) {}
func (NoopRecorder) IncConversionOutcome(Outcome)            {}
func (NoopRecorder) AddBlocksSubmitted(int)                  {}
func (NoopRecorder) IncBatch(bool)                           {}
func (NoopRecorder) IncImageProbe(bool)                      {}
