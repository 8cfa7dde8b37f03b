package repositories

import (
	"context"
	"testing"

	"hirehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicationID(a *models.Application) string { return a.ID }

func TestApplicationCreateIncrementsApplicantsCount(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
	other := createJob(t, coll, models.CreateJobInput{Title: "Porter", Company: "Hospital"})
	amina := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com")
	brian := createApplicant(t, coll, "Brian", "Kamau", "brian@example.com")

	app := createApplication(t, coll, job.ID, amina.ID)
	assert.Regexp(t, `^app_`, app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Nil(t, app.ReviewedAt)
	assert.Equal(t, "Nurse", app.JobTitle)
	assert.Equal(t, "Hospital", app.JobCompany)
	assert.Equal(t, "Amina Otieno", app.ApplicantName)
	assert.Equal(t, "amina@example.com", app.ApplicantEmail)

	createApplication(t, coll, job.ID, brian.ID)

	reloaded, err := coll.Job.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ApplicantsCount)

	untouched, err := coll.Job.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, untouched.ApplicantsCount)

	// Unrelated job edits never move the counter
	_, err = coll.Job.Update(ctx, &models.UpdateJobInput{ID: job.ID, Title: models.Ptr("Senior Nurse"), Featured: models.Ptr(true)})
	require.NoError(t, err)
	_, err = coll.Job.Deactivate(ctx, job.ID)
	require.NoError(t, err)

	reloaded, err = coll.Job.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ApplicantsCount)

	// Deleting an application leaves the submission counter alone
	deleted, err := coll.Application.Delete(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	reloaded, err = coll.Job.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ApplicantsCount)
}

func TestApplicationCreateWithMissingReferences(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})

	app, err := coll.Application.Create(ctx, &models.CreateApplicationInput{JobID: job.ID, ApplicantID: "apl_missing"})
	assert.ErrorIs(t, err, ErrForeignKey)
	assert.Nil(t, app)

	reloaded, err := coll.Job.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.ApplicantsCount, "failed create must roll back the counter")

	_, err = coll.Application.Create(ctx, &models.CreateApplicationInput{JobID: job.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplicationSubmittedDataRoundTrip(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
	applicant := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com")

	doc, err := models.NewJSONDocument(map[string]interface{}{"source": "web", "answers": []string{"yes", "no"}})
	require.NoError(t, err)

	app, err := coll.Application.Create(ctx, &models.CreateApplicationInput{
		JobID:         job.ID,
		ApplicantID:   applicant.ID,
		MatchScore:    models.Ptr(87.5),
		CoverLetter:   "I would love to join",
		SubmittedData: doc,
	})
	require.NoError(t, err)

	found, err := coll.Application.FindByID(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.JSONEq(t, `{"source":"web","answers":["yes","no"]}`, string(found.SubmittedData))
	require.NotNil(t, found.MatchScore)
	assert.Equal(t, 87.5, *found.MatchScore)
	assert.Equal(t, "I would love to join", found.CoverLetter)
}

func TestApplicationReviewedAtFollowsStatus(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
	applicant := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com")
	app := createApplication(t, coll, job.ID, applicant.ID)

	notes, err := coll.Application.Update(ctx, &models.UpdateApplicationInput{ID: app.ID, Notes: models.Ptr("call back")})
	require.NoError(t, err)
	assert.Nil(t, notes.ReviewedAt)
	assert.Equal(t, "call back", notes.Notes)

	reviewed, err := coll.Application.UpdateStatus(ctx, app.ID, models.ApplicationStatusReviewed)
	require.NoError(t, err)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, "call back", reviewed.Notes)

	again, err := coll.Application.UpdateStatus(ctx, app.ID, models.ApplicationStatusReviewed)
	require.NoError(t, err)
	assert.Equal(t, reviewed.ReviewedAt, again.ReviewedAt, "same status keeps the first stamp")

	accepted, err := coll.Application.UpdateStatus(ctx, app.ID, models.ApplicationStatusAccepted)
	require.NoError(t, err)
	require.NotNil(t, accepted.ReviewedAt)
	assert.False(t, accepted.ReviewedAt.Before(*reviewed.ReviewedAt))

	withdrawn, err := coll.Application.UpdateStatus(ctx, app.ID, models.ApplicationStatusWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, accepted.ReviewedAt, withdrawn.ReviewedAt)

	_, err = coll.Application.UpdateStatus(ctx, app.ID, "hired")
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing, err := coll.Application.UpdateStatus(ctx, "app_missing", models.ApplicationStatusReviewed)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestApplicationCreateWithReviewedStatusStampsReviewedAt(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
	applicant := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com")

	app, err := coll.Application.Create(ctx, &models.CreateApplicationInput{
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		Status:      models.ApplicationStatusRejected,
	})
	require.NoError(t, err)
	assert.NotNil(t, app.ReviewedAt)
}

func TestApplicationListing(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	nurseJob := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
	porterJob := createJob(t, coll, models.CreateJobInput{Title: "Porter", Company: "Hospital"})
	amina := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com")
	brian := createApplicant(t, coll, "Brian", "Kamau", "brian@example.com")

	a1, err := coll.Application.Create(ctx, &models.CreateApplicationInput{JobID: nurseJob.ID, ApplicantID: amina.ID, MatchScore: models.Ptr(90.0)})
	require.NoError(t, err)
	a2, err := coll.Application.Create(ctx, &models.CreateApplicationInput{JobID: nurseJob.ID, ApplicantID: brian.ID, MatchScore: models.Ptr(40.0)})
	require.NoError(t, err)
	a3, err := coll.Application.Create(ctx, &models.CreateApplicationInput{JobID: porterJob.ID, ApplicantID: brian.ID, Status: models.ApplicationStatusReviewed})
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   models.ApplicationFilter
		expected []*models.Application
	}{
		{"empty", models.ApplicationFilter{}, []*models.Application{a1, a2, a3}},
		{"job", models.ApplicationFilter{JobID: &nurseJob.ID}, []*models.Application{a1, a2}},
		{"applicant", models.ApplicationFilter{ApplicantID: &brian.ID}, []*models.Application{a2, a3}},
		{"status", models.ApplicationFilter{Status: models.Ptr(models.ApplicationStatusReviewed)}, []*models.Application{a3}},
		{"search applicant name", models.ApplicationFilter{Search: models.Ptr("kamau")}, []*models.Application{a2, a3}},
		{"search job title", models.ApplicationFilter{Search: models.Ptr("porter")}, []*models.Application{a3}},
		{"min score", models.ApplicationFilter{MinScore: models.Ptr(50.0)}, []*models.Application{a1}},
		{"max score", models.ApplicationFilter{MaxScore: models.Ptr(50.0)}, []*models.Application{a2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := coll.Application.FindAll(ctx, tt.filter, models.Pagination{})
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.expected), page.Total)
			assert.ElementsMatch(t, ids(tt.expected, applicationID), ids(page.Data, applicationID))
		})
	}

	byJob, err := coll.Application.FindByJob(ctx, nurseJob.ID, models.Pagination{SortBy: "match_score", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{a2.ID, a1.ID}, ids(byJob.Data, applicationID))

	byApplicant, err := coll.Application.FindByApplicant(ctx, amina.ID, models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{a1.ID}, ids(byApplicant.Data, applicationID))

	applied, err := coll.Application.HasApplied(ctx, porterJob.ID, brian.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = coll.Application.HasApplied(ctx, porterJob.ID, amina.ID)
	require.NoError(t, err)
	assert.False(t, applied)
}
