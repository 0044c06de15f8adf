package pipeline

import (
	"errors"
	"fmt"

	"feedsink/app/feed"
	"feedsink/app/fetch"
)

// Code classifies a pipeline failure for operator display and metadata
// annotation.
type Code string

const (
	CodeTransport      Code = "transport"
	CodeFormat         Code = "format"
	CodeNoItems        Code = "no_items"
	CodePersistence    Code = "persistence"
	CodeInfrastructure Code = "infrastructure"
)

// FeedError attributes a failure to one feed. Errors never propagate past
// the scheduler boundary; they are folded into the run result.
type FeedError struct {
	FeedID string
	Code   Code
	Err    error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s [%s]: %v", e.FeedID, e.Code, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

func errItemsUnavailable(failed int) error {
	return fmt.Errorf("items were unavailable: %d item(s) failed to persist", failed)
}

// ClassifyError maps an underlying failure onto the taxonomy. Anything that
// is neither a fetch error nor the no-items sentinel is a format error.
func ClassifyError(err error) Code {
	var fe *fetch.Error
	if errors.As(err, &fe) {
		return CodeTransport
	}
	if errors.Is(err, feed.ErrNoItems) {
		return CodeNoItems
	}
	return CodeFormat
}
