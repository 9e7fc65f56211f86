package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/marquee/internal/models"
	"github.com/stwalsh4118/marquee/internal/slug"
	"gorm.io/gorm"
)

// BeforeSave transforms an entity inside the write transaction, right before
// it is inserted or updated. Returning an error aborts the save.
type BeforeSave func(ctx context.Context, tx *gorm.DB, entity models.Entity) error

// Hooks is the ordered before-save chain run on every video and playlist write
type Hooks []BeforeSave

// Run applies every hook in order and stops at the first failure
func (h Hooks) Run(ctx context.Context, tx *gorm.DB, entity models.Entity) error {
	for i, hook := range h {
		if err := hook(ctx, tx, entity); err != nil {
			return fmt.Errorf("before-save hook %d on %s %s: %w", i, entity.TableName(), entity.GetID(), err)
		}
	}
	return nil
}

// DefaultHooks returns the standard chain: slug generation, then publish stamping
func DefaultHooks(gen *slug.Generator, now func() time.Time) Hooks {
	return Hooks{SlugHook(gen), PublishHook(now)}
}

// SlugHook derives the slug from the title when it is empty and makes sure
// the final slug is not used by another row of the same table.
func SlugHook(gen *slug.Generator) BeforeSave {
	return func(ctx context.Context, tx *gorm.DB, entity models.Entity) error {
		base := entity.GetSlug()
		if base == "" {
			base = gen.Derive(entity.SlugSource())
		}

		unique, err := gen.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
			var count int64
			err := tx.WithContext(ctx).
				Table(entity.TableName()).
				Where("slug = ? AND id <> ?", candidate, entity.GetID().String()).
				Count(&count).Error
			if err != nil {
				return false, MapGormError(err)
			}
			return count > 0, nil
		})
		if err != nil {
			return err
		}

		entity.SetSlug(unique)
		return nil
	}
}

// PublishHook stamps the publish timestamp the first time an entity is saved
// in the Publish state. Existing timestamps are never touched.
func PublishHook(now func() time.Time) BeforeSave {
	if now == nil {
		now = time.Now
	}
	return func(_ context.Context, _ *gorm.DB, entity models.Entity) error {
		entity.StampPublish(now())
		return nil
	}
}
