package domain

import (
	"errors"
	"fmt"
)

// Data-quality and configuration errors.
var (
	ErrJoinMismatch       = errors.New("join mismatch")
	ErrEmptySeries        = errors.New("empty forecast series")
	ErrOverrideMiss       = errors.New("override name not ranked")
	ErrMissingCoordinates = errors.New("missing coordinates")
	ErrNoValidLocations   = errors.New("no valid locations to rank")
	ErrInvalidBands       = errors.New("invalid score bands")
	ErrInvalidWeights     = errors.New("invalid score weights")
)

// IssueKind classifies a per-location data-quality issue.
type IssueKind string

const (
	IssueJoinMismatch       IssueKind = "join_mismatch"
	IssueEmptySeries        IssueKind = "empty_series"
	IssueOverrideMiss       IssueKind = "override_miss"
	IssueMissingCoordinates IssueKind = "missing_coordinates"
)

// Issue reports a single location that could not be scored or selected.
// It is an error that unwraps to the sentinel for its kind.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Name   string    `json:"name"`
	Detail string    `json:"detail,omitempty"`
}

func (i Issue) Error() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %q", i.sentinel(), i.Name)
	}
	return fmt.Sprintf("%s: %q: %s", i.sentinel(), i.Name, i.Detail)
}

func (i Issue) Unwrap() error {
	return i.sentinel()
}

func (i Issue) sentinel() error {
	switch i.Kind {
	case IssueJoinMismatch:
		return ErrJoinMismatch
	case IssueEmptySeries:
		return ErrEmptySeries
	case IssueOverrideMiss:
		return ErrOverrideMiss
	case IssueMissingCoordinates:
		return ErrMissingCoordinates
	default:
		return errors.New(string(i.Kind))
	}
}

// IssuesOf returns the names of the issues of the given kind, in order.
func IssuesOf(issues []Issue, kind IssueKind) []string {
	var names []string
	for _, i := range issues {
		if i.Kind == kind {
			names = append(names, i.Name)
		}
	}
	return names
}
