package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hirehub/internal/cache"
	"hirehub/internal/config"
	"hirehub/internal/database"
	"hirehub/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// newTestCollection opens a bootstrapped store in a temp dir. c may be nil.
func newTestCollection(t *testing.T, c cache.Cache) *Collection {
	t.Helper()

	cfg := config.Default().Database
	cfg.Path = filepath.Join(t.TempDir(), "hirehub.db")
	cfg.BootstrapRetries = 0

	manager, err := database.NewManager(&cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	admin := config.AdminConfig{Username: "admin", Password: "secret", BCryptCost: bcrypt.MinCost}
	_, err = database.NewBootstrapper(manager, admin, zap.NewNop()).Initialize(context.Background())
	require.NoError(t, err)

	coll, err := NewCollection(manager, c, zap.NewNop(), &RepositoryConfig{
		StatsTTL:   time.Minute,
		BCryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	return coll
}

func createJob(t *testing.T, coll *Collection, input models.CreateJobInput) *models.Job {
	t.Helper()
	job, err := coll.Job.Create(context.Background(), &input)
	require.NoError(t, err)
	require.NotNil(t, job)
	return job
}

func createApplicant(t *testing.T, coll *Collection, first, last, email string, skills ...string) *models.Applicant {
	t.Helper()
	applicant, err := coll.Applicant.Create(context.Background(), &models.CreateApplicantInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Skills:    skills,
	})
	require.NoError(t, err)
	require.NotNil(t, applicant)
	return applicant
}

func createApplication(t *testing.T, coll *Collection, jobID, applicantID string) *models.Application {
	t.Helper()
	app, err := coll.Application.Create(context.Background(), &models.CreateApplicationInput{
		JobID:       jobID,
		ApplicantID: applicantID,
	})
	require.NoError(t, err)
	require.NotNil(t, app)
	return app
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func jobID(j *models.Job) string { return j.ID }
