// Package resource provides the shared CRUD storage layer used by every
// content resource (news, jobs, applications, team, partners, contact
// messages). Each resource supplies only its row model and ordering clause;
// validation and DTO mapping stay with the handlers.
package resource

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound reports that no row matches the requested identifier.
	ErrNotFound = errors.New("resource not found")
	// ErrDeleteFailed reports that a row survived its own delete statement.
	ErrDeleteFailed = errors.New("resource delete failed")
)

// Repository is a gorm-backed store for a single row type R.
type Repository[R any] struct {
	db       *gorm.DB
	ordering string
}

// NewRepository returns a repository ordering reads by the given clause,
// e.g. "created_at DESC" or "COALESCE(published_at, created_at) DESC".
func NewRepository[R any](db *gorm.DB, ordering string) *Repository[R] {
	return &Repository[R]{db: db, ordering: ordering}
}

// DB exposes the underlying handle for queries the generic surface
// does not cover (joins, diagnostics).
func (r *Repository[R]) DB() *gorm.DB {
	return r.db
}

// List returns every row in the repository's ordering.
func (r *Repository[R]) List(ctx context.Context) ([]R, error) {
	var rows []R
	err := r.db.WithContext(ctx).Order(r.ordering).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	return rows, nil
}

// Page returns one page of rows plus the total row count. The caller is
// responsible for clamping page and limit to sane values.
func (r *Repository[R]) Page(ctx context.Context, page, limit int) ([]R, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(new(R)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count rows: %w", err)
	}

	var rows []R
	err := r.db.WithContext(ctx).
		Order(r.ordering).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("page rows: %w", err)
	}
	return rows, total, nil
}

// Get returns the row with the given identifier or ErrNotFound.
func (r *Repository[R]) Get(ctx context.Context, id string) (*R, error) {
	var row R
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("get row: %w", err)
	}
}

// Create inserts the row. The identifier must already be set by the caller.
func (r *Repository[R]) Create(ctx context.Context, row *R) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create row: %w", err)
	}
	return nil
}

// Update applies the given column values to the row with the given
// identifier. Whether the row exists is not checked here; callers re-read
// through Get, which doubles as the existence check.
func (r *Repository[R]) Update(ctx context.Context, id string, values map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(new(R)).
		Where("id = ?", id).
		Updates(values).Error
	if err != nil {
		return fmt.Errorf("update row: %w", err)
	}
	return nil
}

// Delete removes the row and re-checks that it is gone. A row that is still
// present after its delete statement surfaces as ErrDeleteFailed rather
// than a silent false success. Deleting an absent row is not an error.
func (r *Repository[R]) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(R)).Error; err != nil {
		return fmt.Errorf("delete row: %w", err)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(new(R)).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if count > 0 {
		return ErrDeleteFailed
	}
	return nil
}
