package repositories

import (
	"context"
	"errors"
	"testing"

	"hirehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCollectionRequiresManager(t *testing.T) {
	_, err := NewCollection(nil, nil, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestCollectionTransactionCommits(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()
	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})

	var app *models.Application
	err := coll.WithTransaction(ctx, func(tx *Collection) error {
		applicant, err := tx.Applicant.Create(ctx, &models.CreateApplicantInput{
			FirstName: "Amina",
			LastName:  "Otieno",
			Email:     "amina@example.com",
		})
		if err != nil {
			return err
		}
		app, err = tx.Application.Create(ctx, &models.CreateApplicationInput{JobID: job.ID, ApplicantID: applicant.ID})
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, app)

	found, err := coll.Application.FindByID(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Amina Otieno", found.ApplicantName)

	reloaded, err := coll.Job.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ApplicantsCount)
}

func TestCollectionTransactionRollsBack(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()
	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})

	errAbort := errors.New("abort")
	err := coll.WithTransaction(ctx, func(tx *Collection) error {
		applicant, err := tx.Applicant.Create(ctx, &models.CreateApplicantInput{
			FirstName: "Amina",
			LastName:  "Otieno",
			Email:     "amina@example.com",
		})
		if err != nil {
			return err
		}
		if _, err := tx.Application.Create(ctx, &models.CreateApplicationInput{JobID: job.ID, ApplicantID: applicant.ID}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	applicant, err := coll.Applicant.FindByEmail(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Nil(t, applicant)

	reloaded, err := coll.Job.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.ApplicantsCount)
}

func TestCollectionTransactionInvalidatesAfterCommit(t *testing.T) {
	coll := newTestCollection(t, newTestCache(t))
	ctx := context.Background()
	createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital", Category: "nursing"})

	before, err := coll.Stats.JobsByCategory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, before.Get("nursing"))

	err = coll.WithTransaction(ctx, func(tx *Collection) error {
		_, err := tx.Job.Create(ctx, &models.CreateJobInput{Title: "Night Nurse", Company: "Hospital", Category: "nursing"})
		if err != nil {
			return err
		}
		// Reads inside the transaction see the pending row
		inside, err := tx.Stats.JobsByCategory(ctx)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 2, inside.Get("nursing"))
		return nil
	})
	require.NoError(t, err)

	after, err := coll.Stats.JobsByCategory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, after.Get("nursing"))
}

func TestCollectionNestedTransactionReusesOuter(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	err := coll.WithTransaction(ctx, func(outer *Collection) error {
		return outer.WithTransaction(ctx, func(inner *Collection) error {
			assert.Same(t, outer, inner)
			_, err := inner.Job.Create(ctx, &models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
			return err
		})
	})
	require.NoError(t, err)

	page, err := coll.Job.FindAll(ctx, models.JobFilter{}, models.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestCollectionHealthCheck(t *testing.T) {
	coll := newTestCollection(t, newTestCache(t))
	ctx := context.Background()

	health := coll.HealthCheck(ctx)

	assert.Contains(t, health, "database")
	assert.Contains(t, health, "performance")
	assert.Contains(t, health, "cache")
}
