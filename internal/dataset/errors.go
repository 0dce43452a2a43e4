package dataset

import "errors"

var (
	// ErrUnknownCohort is returned for a cohort name other than ai or human.
	ErrUnknownCohort = errors.New("unknown cohort")
	// ErrNoRuns is returned when the run ledger is empty.
	ErrNoRuns = errors.New("no pipeline runs recorded")
)
