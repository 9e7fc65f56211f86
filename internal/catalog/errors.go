package catalog

import "errors"

// Custom catalog service errors
var (
	// ErrVideoNotFound indicates the requested video does not exist
	ErrVideoNotFound = errors.New("video not found")

	// ErrPlaylistNotFound indicates the requested playlist (or show/season view of it) does not exist
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrPlaylistItemNotFound indicates the requested playlist item does not exist in the playlist
	ErrPlaylistItemNotFound = errors.New("playlist item not found")

	// ErrInvalidParent indicates a playlist would become its own ancestor
	ErrInvalidParent = errors.New("playlist cannot be nested under itself or its descendants")

	// ErrInvalidState indicates an unknown publish state
	ErrInvalidState = errors.New("state must be DR (draft) or PU (publish)")

	// ErrTitleRequired indicates an empty title on create or update
	ErrTitleRequired = errors.New("title is required")

	// ErrExternalIDRequired indicates a video without its external reference
	ErrExternalIDRequired = errors.New("video_id is required")
)

// IsVideoNotFound checks if the error is a video not found error
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsPlaylistNotFound checks if the error is a playlist not found error
func IsPlaylistNotFound(err error) bool {
	return errors.Is(err, ErrPlaylistNotFound)
}

// IsPlaylistItemNotFound checks if the error is a playlist item not found error
func IsPlaylistItemNotFound(err error) bool {
	return errors.Is(err, ErrPlaylistItemNotFound)
}

// IsInvalidParent checks if the error is an invalid parent error
func IsInvalidParent(err error) bool {
	return errors.Is(err, ErrInvalidParent)
}

// IsValidationError reports whether err was caused by bad caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrExternalIDRequired)
}
