// Package split partitions source pull requests into AI and human cohorts.
package split

import (
	"fmt"
	"strings"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
	"github.com/festy23/aidev_cohorts/internal/cohort/qualify"
)

// Source schema variants accepted by SOURCE_SCHEMA.
const (
	SchemaAuto     = "auto"
	SchemaExplicit = "explicit"
	SchemaFlag     = "flag"
)

// Cohorts is the result of partitioning.
type Cohorts struct {
	AI    []model.PullRequest
	Human []model.PullRequest
	// Dropped counts rows outside the qualifying repositories.
	Dropped int
}

// SourceAdapter reads origin information from one source schema.
type SourceAdapter interface {
	// Name returns the schema variant name.
	Name() string
	// Partition splits rows into cohorts restricted to qualifying repositories.
	// Input rows are not modified.
	Partition(rows []model.SourcePullRequest, q qualify.Qualified) Cohorts
	// ReviewProviderHint returns the reviewing automation's provider, or ""
	// when the schema does not carry one.
	ReviewProviderHint(row model.SourcePullRequest) string
}

// ExplicitOriginSchema reads origin from the agent column.
type ExplicitOriginSchema struct{}

// Name implements SourceAdapter.
func (ExplicitOriginSchema) Name() string { return SchemaExplicit }

// ReviewProviderHint implements SourceAdapter. The agent column names the
// author only, so there is no review signal.
func (ExplicitOriginSchema) ReviewProviderHint(model.SourcePullRequest) string { return "" }

// Partition implements SourceAdapter. Only an agent of exactly "human" is
// human-origin; any other value, including a missing agent or a differently
// cased "Human", is AI-origin.
func (s ExplicitOriginSchema) Partition(rows []model.SourcePullRequest, q qualify.Qualified) Cohorts {
	var out Cohorts
	for _, row := range rows {
		origin := model.OriginAI
		if row.Agent != nil && *row.Agent == model.HumanAgent {
			origin = model.OriginHuman
		}
		repo, ok := q.Resolve(row)
		if !ok {
			out.Dropped++
			continue
		}
		out.add(row, origin, repo, s.ReviewProviderHint(row))
	}
	return out
}

// FlagJoinSchema reads origin from a boolean is_ai column, joined to the
// qualifying repositories through the repository id.
type FlagJoinSchema struct{}

// Name implements SourceAdapter.
func (FlagJoinSchema) Name() string { return SchemaFlag }

// ReviewProviderHint implements SourceAdapter.
func (FlagJoinSchema) ReviewProviderHint(model.SourcePullRequest) string { return "" }

// Partition implements SourceAdapter. Rows of non-qualifying repositories are
// dropped before the flag is read.
func (s FlagJoinSchema) Partition(rows []model.SourcePullRequest, q qualify.Qualified) Cohorts {
	var out Cohorts
	for _, row := range rows {
		repo, ok := q.Resolve(row)
		if !ok {
			out.Dropped++
			continue
		}
		origin := model.OriginHuman
		if row.IsAI != nil && *row.IsAI {
			origin = model.OriginAI
		}
		out.add(row, origin, repo, s.ReviewProviderHint(row))
	}
	return out
}

func (c *Cohorts) add(row model.SourcePullRequest, origin model.Origin, repo model.Repository, reviewProvider string) {
	pr := model.Normalize(row, origin, repo)
	pr.ReviewProvider = reviewProvider
	if origin == model.OriginAI {
		c.AI = append(c.AI, pr)
		return
	}
	c.Human = append(c.Human, pr)
}

// Detect picks the adapter matching the columns of the source table.
func Detect(columns []string) (SourceAdapter, error) {
	has := make(map[string]bool, len(columns))
	for _, c := range columns {
		has[strings.ToLower(c)] = true
	}
	switch {
	case has["agent"]:
		return ExplicitOriginSchema{}, nil
	case has["is_ai"]:
		return FlagJoinSchema{}, nil
	default:
		return nil, model.ErrUnknownSchema
	}
}

// ForVariant returns the adapter for a SOURCE_SCHEMA value; "auto" detects it
// from columns.
func ForVariant(variant string, columns []string) (SourceAdapter, error) {
	switch variant {
	case SchemaExplicit:
		return ExplicitOriginSchema{}, nil
	case SchemaFlag:
		return FlagJoinSchema{}, nil
	case SchemaAuto, "":
		return Detect(columns)
	default:
		return nil, fmt.Errorf("unknown source schema %q", variant)
	}
}
