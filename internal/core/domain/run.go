package domain

import "fmt"

// Stage identifies one ingestion pipeline step.
type Stage string

// Pipeline stages in processing order.
const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
	StageChunk Stage = "chunk"
	StageEmbed Stage = "embed"
	StageStore Stage = "store"
)

// SourceFailure records one source that failed at a pipeline stage.
type SourceFailure struct {
	// Source is the identifier that failed.
	Source string

	// Stage is the pipeline step where the failure occurred.
	Stage Stage

	// Err is the underlying stage error.
	Err error
}

// Error implements the error interface.
func (f SourceFailure) Error() string {
	return fmt.Sprintf("%s: %s stage failed: %v", f.Source, f.Stage, f.Err)
}

// Unwrap exposes the underlying stage error for errors.Is/As.
func (f SourceFailure) Unwrap() error {
	return f.Err
}

// RunResult aggregates the outcome of one pipeline run.
// It is built incrementally as sources are processed and finalised once
// every source has been attempted.
type RunResult struct {
	// Attempted is the total number of sources processed.
	Attempted int

	// Stored is the number of documents stored successfully.
	// With a chunker configured, one source may contribute several.
	Stored int

	// Failures lists per-source failures in input order.
	Failures []SourceFailure
}

// RecordFailure appends a failure for a source at the given stage.
func (r *RunResult) RecordFailure(source string, stage Stage, err error) {
	r.Failures = append(r.Failures, SourceFailure{Source: source, Stage: stage, Err: err})
}

// Failed reports whether the named source has a recorded failure.
func (r *RunResult) Failed(source string) bool {
	for _, f := range r.Failures {
		if f.Source == source {
			return true
		}
	}
	return false
}
