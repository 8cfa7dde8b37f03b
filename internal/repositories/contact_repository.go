package repositories

import (
	"context"
	"fmt"
	"strings"

	"hirehub/internal/models"
	"hirehub/internal/validation"

	"go.uber.org/zap"
)

const contactColumns = `
	id, first_name, last_name, email, phone, subject, message, status,
	submitted_at, responded_at, updated_at`

var contactSort = sortSpec{
	columns: map[string]string{
		"submitted_at": "submitted_at",
		"created_at":   "submitted_at",
		"updated_at":   "updated_at",
		"responded_at": "responded_at",
		"status":       "status",
		"subject":      "subject",
		"email":        "email",
	},
	fallback: "submitted_at",
	tiebreak: "id",
}

type contactRepository struct {
	*BaseRepository
}

// NewContactMessageRepository creates a new instance of ContactMessageRepository
func NewContactMessageRepository(base *BaseRepository) ContactMessageRepository {
	return &contactRepository{BaseRepository: base}
}

func (r *contactRepository) Create(ctx context.Context, input *models.CreateContactMessageInput) (*models.ContactMessage, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	id := generateID(prefixMessage)
	ts := utcNow()

	_, err := r.ExecContext(ctx, `
		INSERT INTO contact_messages (
			id, first_name, last_name, email, phone, subject, message, status,
			submitted_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.FirstName, input.LastName, strings.TrimSpace(input.Email), input.Phone,
		input.Subject, input.Message, models.ContactStatusNew, ts, ts,
	)
	if err != nil {
		return nil, classifyError("create contact message", err)
	}

	r.logger.Info("Contact message received",
		zap.String("message_id", id),
		zap.String("subject", input.Subject),
	)
	r.invalidate(ctx)

	return r.findByID(ctx, id)
}

func (r *contactRepository) FindByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findByID(ctx, id)
}

func (r *contactRepository) findByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	msg, err := queryOne(ctx, r.BaseRepository,
		"SELECT "+contactColumns+" FROM contact_messages WHERE id = ?", []interface{}{id}, scanContactMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return msg, nil
}

func (r *contactRepository) FindAll(ctx context.Context, filter models.ContactFilter, page models.Pagination) (*models.Page[*models.ContactMessage], error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().
		eq("status", filter.Status).
		search(filter.Search, "first_name", "last_name", "email", "subject", "message").
		after("submitted_at", filter.SubmittedAfter).
		before("submitted_at", filter.SubmittedBefore)

	result, err := fetchPage(ctx, r.BaseRepository, listQuery{
		columns: contactColumns,
		from:    "contact_messages",
		where:   where,
		sort:    contactSort,
	}, page, scanContactMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return result, nil
}

// FindRecent returns the newest messages regardless of status
func (r *contactRepository) FindRecent(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	query := "SELECT " + contactColumns + " FROM contact_messages" +
		contactSort.orderBy(models.Pagination{}) + " LIMIT ?"
	msgs, err := queryList(ctx, r.BaseRepository, query, []interface{}{clampLimit(limit)}, scanContactMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent contact messages: %w", err)
	}
	return msgs, nil
}

func (r *contactRepository) FindByStatus(ctx context.Context, status string, page models.Pagination) (*models.Page[*models.ContactMessage], error) {
	return r.FindAll(ctx, models.ContactFilter{Status: &status}, page)
}

// Update applies the present fields. Moving to replied from another status
// stamps responded_at.
func (r *contactRepository) Update(ctx context.Context, input *models.UpdateContactMessageInput) (*models.ContactMessage, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	ts := utcNow()
	set := newSet()
	if input.Status != nil {
		set.set("status", *input.Status)
		if *input.Status == models.ContactStatusReplied {
			set.expr("responded_at", "CASE WHEN status <> ? THEN ? ELSE responded_at END", *input.Status, ts)
		}
	}
	setField(set, "subject", input.Subject)
	setField(set, "message", input.Message)
	setField(set, "phone", input.Phone)

	if set.empty() {
		return r.findByID(ctx, input.ID)
	}
	set.set("updated_at", ts)

	result, err := r.ExecContext(ctx, "UPDATE contact_messages SET "+set.String()+" WHERE id = ?", append(set.args, input.ID)...)
	if err != nil {
		return nil, classifyError("update contact message", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	r.invalidate(ctx)

	return r.findByID(ctx, input.ID)
}

// MarkAsRead moves a new message to read; other statuses are left alone
func (r *contactRepository) MarkAsRead(ctx context.Context, id string) (*models.ContactMessage, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	result, err := r.ExecContext(ctx,
		"UPDATE contact_messages SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		models.ContactStatusRead, utcNow(), id, models.ContactStatusNew,
	)
	if err != nil {
		return nil, classifyError("mark contact message read", err)
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		r.invalidate(ctx)
	}

	return r.findByID(ctx, id)
}

func (r *contactRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	deleted, err := r.deleteByID(ctx, "contact_messages", id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.invalidate(ctx)
	}
	return deleted, nil
}

func scanContactMessage(row rowScanner) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.Status,
		&m.SubmittedAt, &m.RespondedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
