package repositories

import (
	"context"
	"fmt"
	"strings"

	"hirehub/internal/models"
	"hirehub/internal/validation"

	"go.uber.org/zap"
)

const subscriberColumns = `id, email, status, source, subscription_date, updated_at`

var subscriberSort = sortSpec{
	columns: map[string]string{
		"subscription_date": "subscription_date",
		"created_at":        "subscription_date",
		"updated_at":        "updated_at",
		"email":             "email",
		"status":            "status",
		"source":            "source",
	},
	fallback: "subscription_date",
	tiebreak: "id",
}

type subscriberRepository struct {
	*BaseRepository
}

// NewEmailSubscriberRepository creates a new instance of EmailSubscriberRepository
func NewEmailSubscriberRepository(base *BaseRepository) EmailSubscriberRepository {
	return &subscriberRepository{BaseRepository: base}
}

// Create subscribes an email. The email column is unique (case-insensitive).
// Subscribing an inactive address reactivates it; an address that is
// already active yields an error wrapping ErrDuplicate.
func (r *subscriberRepository) Create(ctx context.Context, input *models.CreateSubscriberInput) (*models.EmailSubscriber, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	status := input.Status
	if status == "" {
		status = models.SubscriberStatusActive
	}
	email := strings.TrimSpace(input.Email)
	ts := utcNow()

	result, err := r.ExecContext(ctx, `
		INSERT INTO email_subscribers (email, status, source, subscription_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
		WHERE email_subscribers.status = ? AND excluded.status = ?`,
		email, status, input.Source, ts, ts,
		models.SubscriberStatusInactive, models.SubscriberStatusActive,
	)
	if err != nil {
		return nil, classifyError("create subscriber", err)
	}

	// The conflict update is skipped for a live subscription
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("create subscriber: %w", ErrDuplicate)
	}
	r.invalidate(ctx)

	sub, err := r.findOne(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		r.logger.Info("Subscriber added", zap.Int64("subscriber_id", sub.ID), zap.String("status", sub.Status))
	}
	return sub, nil
}

func (r *subscriberRepository) FindByID(ctx context.Context, id int64) (*models.EmailSubscriber, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findOne(ctx, "id = ?", id)
}

func (r *subscriberRepository) FindByEmail(ctx context.Context, email string) (*models.EmailSubscriber, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findOne(ctx, "email = ?", strings.TrimSpace(email))
}

func (r *subscriberRepository) findOne(ctx context.Context, predicate string, args ...interface{}) (*models.EmailSubscriber, error) {
	sub, err := queryOne(ctx, r.BaseRepository,
		"SELECT "+subscriberColumns+" FROM email_subscribers WHERE "+predicate, args, scanSubscriber)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return sub, nil
}

func (r *subscriberRepository) FindAll(ctx context.Context, filter models.SubscriberFilter, page models.Pagination) (*models.Page[*models.EmailSubscriber], error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().
		eq("status", filter.Status).
		like("email", filter.Search).
		eq("source", filter.Source).
		after("subscription_date", filter.SubscribedAfter)

	result, err := fetchPage(ctx, r.BaseRepository, listQuery{
		columns: subscriberColumns,
		from:    "email_subscribers",
		where:   where,
		sort:    subscriberSort,
	}, page, scanSubscriber)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return result, nil
}

// Unsubscribe marks the email inactive and reports whether it was subscribed
func (r *subscriberRepository) Unsubscribe(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	result, err := r.ExecContext(ctx,
		"UPDATE email_subscribers SET status = ?, updated_at = ? WHERE email = ?",
		models.SubscriberStatusInactive, utcNow(), strings.TrimSpace(email),
	)
	if err != nil {
		return false, classifyError("unsubscribe", err)
	}
	affected, _ := result.RowsAffected()
	if affected > 0 {
		r.invalidate(ctx)
	}
	return affected > 0, nil
}

func (r *subscriberRepository) Update(ctx context.Context, input *models.UpdateSubscriberInput) (*models.EmailSubscriber, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	set := newSet()
	setField(set, "status", input.Status)
	setField(set, "source", input.Source)

	if set.empty() {
		return r.findOne(ctx, "id = ?", input.ID)
	}
	set.set("updated_at", utcNow())

	result, err := r.ExecContext(ctx, "UPDATE email_subscribers SET "+set.String()+" WHERE id = ?", append(set.args, input.ID)...)
	if err != nil {
		return nil, classifyError("update subscriber", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	r.invalidate(ctx)

	return r.findOne(ctx, "id = ?", input.ID)
}

func (r *subscriberRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	deleted, err := r.deleteByID(ctx, "email_subscribers", id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.invalidate(ctx)
	}
	return deleted, nil
}

// ActiveEmails lists every active subscriber address, oldest first
func (r *subscriberRepository) ActiveEmails(ctx context.Context) ([]string, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	emails, err := queryList(ctx, r.BaseRepository,
		"SELECT email FROM email_subscribers WHERE status = ? ORDER BY subscription_date ASC, id ASC",
		[]interface{}{models.SubscriberStatusActive},
		func(row rowScanner) (string, error) {
			var email string
			err := row.Scan(&email)
			return email, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscribers: %w", err)
	}
	return emails, nil
}

func scanSubscriber(row rowScanner) (*models.EmailSubscriber, error) {
	var s models.EmailSubscriber
	if err := row.Scan(&s.ID, &s.Email, &s.Status, &s.Source, &s.SubscriptionDate, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
