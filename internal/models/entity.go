package models

import (
	"time"

	"github.com/google/uuid"
)

// Publishing carries the publish lifecycle fields. It is embedded into every
// entity that can be published so the columns and behaviour live in one place.
type Publishing struct {
	State            PublishState `json:"state" gorm:"type:text;not null;column:state"`
	PublishTimestamp *time.Time   `json:"publish_timestamp,omitempty" gorm:"type:datetime;column:publish_timestamp"`
}

// StampPublish sets the publish timestamp to now when the state is Publish and
// no timestamp is set yet. It reports whether the timestamp was changed.
func (p *Publishing) StampPublish(now time.Time) bool {
	if p.State != StatePublish || p.PublishTimestamp != nil {
		return false
	}
	ts := now.UTC()
	p.PublishTimestamp = &ts
	return true
}

// IsPublishedAt mirrors the published() query: state is Publish and the
// gating timestamp has passed.
func (p Publishing) IsPublishedAt(now time.Time) bool {
	return p.State == StatePublish && p.PublishTimestamp != nil && !p.PublishTimestamp.After(now)
}

// Sluggable is implemented by entities whose slug is derived from a title
type Sluggable interface {
	SlugSource() string
	GetSlug() string
	SetSlug(slug string)
}

// Publishable is implemented by entities carrying the publish lifecycle
type Publishable interface {
	StampPublish(now time.Time) bool
	IsPublishedAt(now time.Time) bool
}

// Entity is a persisted record that goes through the before-save hooks
type Entity interface {
	Sluggable
	Publishable
	GetID() uuid.UUID
	TableName() string
}
