// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline runs.
var (
	// ErrInvalidInput reports an empty or whitespace-only topic.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailed matches every StageError.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyResult reports a stage whose generation call returned no text.
	ErrEmptyResult = errors.New("empty result")
)

// StageError reports the stage that aborted a run and the underlying cause.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the cause so callers can test for context errors or ErrEmptyResult.
func (e *StageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGenerationFailed) true for any StageError.
func (e *StageError) Is(target error) bool { return target == ErrGenerationFailed }

// FailedStage returns the name of the stage that failed, or "" when err is
// not a StageError.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
