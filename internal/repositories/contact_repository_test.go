package repositories

import (
	"context"
	"sync/atomic"
	"testing"

	"hirehub/internal/cache"
	"hirehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMessage(t *testing.T, coll *Collection, subject, message string) *models.ContactMessage {
	t.Helper()
	msg, err := coll.ContactMessage.Create(context.Background(), &models.CreateContactMessageInput{
		FirstName: "Amina",
		LastName:  "Otieno",
		Email:     "amina@example.com",
		Subject:   subject,
		Message:   message,
	})
	require.NoError(t, err)
	return msg
}

func TestContactMessageLifecycle(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	msg := createMessage(t, coll, "Vacancy question", "Is the night shift role open?")
	assert.Regexp(t, `^msg_`, msg.ID)
	assert.Equal(t, models.ContactStatusNew, msg.Status)
	assert.Nil(t, msg.RespondedAt)

	read, err := coll.ContactMessage.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, read.Status)

	replied, err := coll.ContactMessage.Update(ctx, &models.UpdateContactMessageInput{
		ID:     msg.ID,
		Status: models.Ptr(models.ContactStatusReplied),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusReplied, replied.Status)
	require.NotNil(t, replied.RespondedAt)

	// Marking read again does not undo the reply
	still, err := coll.ContactMessage.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusReplied, still.Status)

	again, err := coll.ContactMessage.Update(ctx, &models.UpdateContactMessageInput{
		ID:     msg.ID,
		Status: models.Ptr(models.ContactStatusReplied),
	})
	require.NoError(t, err)
	assert.Equal(t, replied.RespondedAt, again.RespondedAt)

	archived, err := coll.ContactMessage.Update(ctx, &models.UpdateContactMessageInput{
		ID:     msg.ID,
		Status: models.Ptr(models.ContactStatusArchived),
	})
	require.NoError(t, err)
	assert.Equal(t, replied.RespondedAt, archived.RespondedAt)
	assert.Equal(t, msg.Subject, archived.Subject)

	deleted, err := coll.ContactMessage.Delete(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := coll.ContactMessage.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestContactMessageListing(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	vacancy := createMessage(t, coll, "Vacancy question", "Night shift?")
	partnership := createMessage(t, coll, "Partnership", "We run a clinic")
	_, err := coll.ContactMessage.MarkAsRead(ctx, partnership.ID)
	require.NoError(t, err)

	messageID := func(m *models.ContactMessage) string { return m.ID }

	newOnes, err := coll.ContactMessage.FindByStatus(ctx, models.ContactStatusNew, models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{vacancy.ID}, ids(newOnes.Data, messageID))

	searched, err := coll.ContactMessage.FindAll(ctx, models.ContactFilter{Search: models.Ptr("CLINIC")}, models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{partnership.ID}, ids(searched.Data, messageID))

	all, err := coll.ContactMessage.FindAll(ctx, models.ContactFilter{}, models.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	recent, err := coll.ContactMessage.FindRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestContactMessageRejectsInvalidInput(t *testing.T) {
	coll := newTestCollection(t, nil)

	_, err := coll.ContactMessage.Create(context.Background(), &models.CreateContactMessageInput{
		FirstName: "Amina",
		Email:     "not-an-email",
		Subject:   "Hi",
		Message:   "Hello",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// countingCache counts stats invalidations
type countingCache struct {
	cache.Cache
	drops atomic.Int32
}

func (c *countingCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.drops.Add(1)
	return c.Cache.DeletePrefix(ctx, prefix)
}

func TestMarkAsReadOnlyInvalidatesOnChange(t *testing.T) {
	c := &countingCache{Cache: newTestCache(t)}
	coll := newTestCollection(t, c)
	ctx := context.Background()

	msg := createMessage(t, coll, "Vacancy question", "Is the night shift role open?")
	created := c.drops.Load()
	require.Positive(t, created)

	gone, err := coll.ContactMessage.MarkAsRead(ctx, "msg_missing")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, created, c.drops.Load(), "missing id")

	_, err = coll.ContactMessage.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, created+1, c.drops.Load(), "new to read")

	read, err := coll.ContactMessage.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, read.Status)
	assert.Equal(t, created+1, c.drops.Load(), "already read")
}
