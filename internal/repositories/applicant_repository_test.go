package repositories

import (
	"context"
	"testing"

	"hirehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicantID(a *models.Applicant) string { return a.ID }

func TestApplicantListsRoundTrip(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	created, err := coll.Applicant.Create(ctx, &models.CreateApplicantInput{
		FirstName:      "Amina",
		LastName:       "Otieno",
		Email:          "amina@example.com",
		Skills:         []string{"Triage", "IV \"lines\"", "Pädiatrie"},
		Certifications: nil,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^apl_`, created.ID)

	found, err := coll.Applicant.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.StringList{"Triage", "IV \"lines\"", "Pädiatrie"}, found.Skills)
	assert.Equal(t, models.StringList{}, found.Certifications)
	assert.Equal(t, "Amina Otieno", found.FullName())
}

func TestApplicantFindByEmail(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	first := createApplicant(t, coll, "Amina", "Otieno", "Amina@Example.com")
	createApplicant(t, coll, "Amina", "Duplicate", "amina@example.com")

	found, err := coll.Applicant.FindByEmail(ctx, "  AMINA@example.COM ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	missing, err := coll.Applicant.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	blank, err := coll.Applicant.FindByEmail(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, blank)
}

func TestApplicantFilterIndependence(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	gopher, err := coll.Applicant.Create(ctx, &models.CreateApplicantInput{
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           "grace@example.com",
		Country:         "USA",
		CurrentPosition: "Engineer",
		YearsExperience: "10+",
		Availability:    "immediate",
		Skills:          []string{"Go", "SQL"},
	})
	require.NoError(t, err)
	nurse, err := coll.Applicant.Create(ctx, &models.CreateApplicantInput{
		FirstName:       "Florence",
		LastName:        "Nightingale",
		Email:           "florence@example.com",
		Country:         "UK",
		CurrentPosition: "Ward Nurse",
		CurrentCompany:  "St Thomas",
		YearsExperience: "5-10",
		Availability:    "2 weeks",
		Skills:          []string{"Triage", "Golang"},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   models.ApplicantFilter
		expected []*models.Applicant
	}{
		{"empty", models.ApplicantFilter{}, []*models.Applicant{gopher, nurse}},
		{"search last name", models.ApplicantFilter{Search: models.Ptr("hopper")}, []*models.Applicant{gopher}},
		{"search company", models.ApplicantFilter{Search: models.Ptr("thomas")}, []*models.Applicant{nurse}},
		{"email", models.ApplicantFilter{Email: models.Ptr("florence@example.com")}, []*models.Applicant{nurse}},
		{"skill is an exact element", models.ApplicantFilter{Skill: models.Ptr("Go")}, []*models.Applicant{gopher}},
		{"other skill", models.ApplicantFilter{Skill: models.Ptr("Golang")}, []*models.Applicant{nurse}},
		{"unknown skill", models.ApplicantFilter{Skill: models.Ptr("Rust")}, nil},
		{"years experience", models.ApplicantFilter{YearsExperience: models.Ptr("10+")}, []*models.Applicant{gopher}},
		{"country", models.ApplicantFilter{Country: models.Ptr("UK")}, []*models.Applicant{nurse}},
		{"availability", models.ApplicantFilter{Availability: models.Ptr("immediate")}, []*models.Applicant{gopher}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := coll.Applicant.FindAll(ctx, tt.filter, models.Pagination{})
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.expected), page.Total)
			assert.ElementsMatch(t, ids(tt.expected, applicantID), ids(page.Data, applicantID))
		})
	}

	bySkill, err := coll.Applicant.FindBySkill(ctx, "SQL", models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{gopher.ID}, ids(bySkill.Data, applicantID))
}

func TestApplicantPartialUpdate(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	before := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com", "Triage")

	updated, err := coll.Applicant.Update(ctx, &models.UpdateApplicantInput{
		ID:     before.ID,
		Skills: &[]string{"Triage", "Phlebotomy"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	expected := *before
	expected.Skills = models.StringList{"Triage", "Phlebotomy"}
	expected.UpdatedAt = updated.UpdatedAt
	assert.Equal(t, &expected, updated)

	_, err = coll.Applicant.Update(ctx, &models.UpdateApplicantInput{ID: before.ID, Email: models.Ptr("not-an-email")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing, err := coll.Applicant.Update(ctx, &models.UpdateApplicantInput{ID: "apl_missing", City: models.Ptr("Nairobi")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestApplicantDeleteRemovesApplications(t *testing.T) {
	coll := newTestCollection(t, nil)
	ctx := context.Background()

	job := createJob(t, coll, models.CreateJobInput{Title: "Nurse", Company: "Hospital"})
	applicant := createApplicant(t, coll, "Amina", "Otieno", "amina@example.com")
	app := createApplication(t, coll, job.ID, applicant.ID)

	deleted, err := coll.Applicant.Delete(ctx, applicant.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := coll.Application.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
