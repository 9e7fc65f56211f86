// Package catalog implements the video and playlist catalog operations on top
// of the repositories in internal/db: validation, hierarchy rules, membership
// editing and the reverse lookup.
package catalog

import (
	"time"

	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

// Options tunes listing limits and the clock used by published() queries
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = defaultPageSize
	}
	if o.MaxPageSize < o.DefaultPageSize {
		o.MaxPageSize = maxPageSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// page clamps a caller supplied limit and offset
func (o Options) page(filter db.ListFilter) db.ListFilter {
	switch {
	case filter.Limit <= 0:
		filter.Limit = o.DefaultPageSize
	case filter.Limit > o.MaxPageSize:
		filter.Limit = o.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}

func (o Options) now() time.Time {
	return o.Now().UTC()
}

// normalizeState validates an optional state, defaulting to Draft
func normalizeState(state models.PublishState) (models.PublishState, error) {
	if state == "" {
		return models.StateDraft, nil
	}
	if state.IsValid() {
		return state, nil
	}
	parsed, err := models.ParsePublishState(string(state))
	if err != nil {
		return "", ErrInvalidState
	}
	return parsed, nil
}
