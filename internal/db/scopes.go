package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/models"
	"gorm.io/gorm"
)

// Published restricts a query to rows in the Publish state whose publish
// timestamp is at or before now.
func Published(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("state = ? AND publish_timestamp IS NOT NULL AND publish_timestamp <= ?", models.StatePublish, now.UTC())
	}
}

// Shows restricts a playlist query to root playlists
func Shows(q *gorm.DB) *gorm.DB {
	return q.Where("parent_id IS NULL")
}

// Seasons restricts a playlist query to playlists nested under a parent
func Seasons(q *gorm.DB) *gorm.DB {
	return q.Where("parent_id IS NOT NULL")
}

// ChildrenOf restricts a playlist query to the direct children of parentID
func ChildrenOf(parentID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("parent_id = ?", parentID.String())
	}
}

// HierarchyOrder sorts playlists the way show and season listings present them
func HierarchyOrder(q *gorm.DB) *gorm.DB {
	return q.Order(`"order" ASC`).Order("title ASC").Order("id ASC")
}

// MembershipOrder sorts playlist items by order, newest first on ties
func MembershipOrder(q *gorm.DB) *gorm.DB {
	return q.Order(`"order" ASC`).Order("created_at DESC")
}

// ListShows returns every root playlist
func ListShows(ctx context.Context, q *gorm.DB) ([]*models.Playlist, error) {
	var shows []*models.Playlist
	if err := q.WithContext(ctx).Scopes(Shows, HierarchyOrder).Find(&shows).Error; err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", MapGormError(err))
	}
	return shows, nil
}

// ListSeasons returns every playlist that has a parent
func ListSeasons(ctx context.Context, q *gorm.DB) ([]*models.Playlist, error) {
	var seasons []*models.Playlist
	if err := q.WithContext(ctx).Scopes(Seasons, HierarchyOrder).Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", MapGormError(err))
	}
	return seasons, nil
}
