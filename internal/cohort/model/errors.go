package model

import "errors"

var (
	// ErrEmptyCohort indicates that the AI cohort has no rows, so no comparison window exists.
	ErrEmptyCohort = errors.New("ai cohort is empty")
	// ErrUnknownSchema indicates that the source pull request table carries no origin column.
	ErrUnknownSchema = errors.New("source schema has neither agent nor is_ai column")
)
