package models

import (
	"fmt"
	"strings"
)

// PublishState is the Draft/Publish lifecycle flag shared by videos and playlists.
// Values are stored using the two-letter codes below.
type PublishState string

// Publish state codes
const (
	StateDraft   PublishState = "DR"
	StatePublish PublishState = "PU"
)

// String returns the human readable label for the state
func (s PublishState) String() string {
	switch s {
	case StateDraft:
		return "Draft"
	case StatePublish:
		return "Publish"
	default:
		return string(s)
	}
}

// IsValid reports whether s is a known state code
func (s PublishState) IsValid() bool {
	return s == StateDraft || s == StatePublish
}

// ParsePublishState accepts either a state code ("DR", "PU") or a label
// ("draft", "publish", "published"), case-insensitively.
func ParsePublishState(raw string) (PublishState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dr", "draft":
		return StateDraft, nil
	case "pu", "publish", "published":
		return StatePublish, nil
	default:
		return "", fmt.Errorf("unknown publish state %q", raw)
	}
}
