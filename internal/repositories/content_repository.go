package repositories

import (
	"context"
	"fmt"

	"hirehub/internal/models"
	"hirehub/internal/validation"
)

const contentColumns = `id, title, type, content, created_at, updated_at`

var contentSort = sortSpec{
	columns: map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"id":         "id",
		"title":      "title",
		"type":       "type",
	},
	fallback: "updated_at",
	tiebreak: "id",
}

type contentRepository struct {
	*BaseRepository
}

// NewContentSectionRepository creates a new instance of ContentSectionRepository
func NewContentSectionRepository(base *BaseRepository) ContentSectionRepository {
	return &contentRepository{BaseRepository: base}
}

// Upsert creates the section or replaces its title, type and content.
// created_at survives replacement.
func (r *contentRepository) Upsert(ctx context.Context, input *models.UpsertContentInput) (*models.ContentSection, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	ts := utcNow()
	_, err := r.ExecContext(ctx, `
		INSERT INTO content_sections (id, title, type, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		input.ID, input.Title, input.Type, input.Content, ts, ts,
	)
	if err != nil {
		return nil, classifyError("upsert content section", err)
	}

	return r.findByID(ctx, input.ID)
}

func (r *contentRepository) FindByID(ctx context.Context, id string) (*models.ContentSection, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findByID(ctx, id)
}

func (r *contentRepository) findByID(ctx context.Context, id string) (*models.ContentSection, error) {
	section, err := queryOne(ctx, r.BaseRepository,
		"SELECT "+contentColumns+" FROM content_sections WHERE id = ?", []interface{}{id}, scanContentSection)
	if err != nil {
		return nil, fmt.Errorf("failed to get content section: %w", err)
	}
	return section, nil
}

func (r *contentRepository) FindAll(ctx context.Context, filter models.ContentFilter, page models.Pagination) (*models.Page[*models.ContentSection], error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().
		eq("type", filter.Type).
		search(filter.Search, "id", "title", "content")

	result, err := fetchPage(ctx, r.BaseRepository, listQuery{
		columns: contentColumns,
		from:    "content_sections",
		where:   where,
		sort:    contentSort,
	}, page, scanContentSection)
	if err != nil {
		return nil, fmt.Errorf("failed to list content sections: %w", err)
	}
	return result, nil
}

func (r *contentRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.deleteByID(ctx, "content_sections", id)
}

func scanContentSection(row rowScanner) (*models.ContentSection, error) {
	var c models.ContentSection
	if err := row.Scan(&c.ID, &c.Title, &c.Type, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
