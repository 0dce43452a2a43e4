package dataset

import (
	"fmt"
	"strings"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

// ParseCohort maps a cohort name to its origin.
func ParseCohort(name string) (model.Origin, error) {
	switch model.Origin(strings.ToLower(strings.TrimSpace(name))) {
	case model.OriginAI:
		return model.OriginAI, nil
	case model.OriginHuman:
		return model.OriginHuman, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCohort, name)
	}
}

// TableFor returns the artifact table of a cohort.
func TableFor(origin model.Origin) (string, error) {
	switch origin {
	case model.OriginAI:
		return model.AIPullRequest{}.TableName(), nil
	case model.OriginHuman:
		return model.HumanPullRequest{}.TableName(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCohort, origin)
	}
}
