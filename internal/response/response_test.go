package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"hirehub/internal/contextutils"
	"hirehub/internal/models"
	"hirehub/internal/repositories"
	"hirehub/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"duplicate", fmt.Errorf("create subscriber: %w", repositories.ErrDuplicate), http.StatusConflict, TypeConflict},
		{"foreign key", fmt.Errorf("create application: %w", repositories.ErrForeignKey), http.StatusBadRequest, TypeValidation},
		{"invalid input", fmt.Errorf("%w: bad", repositories.ErrInvalidInput), http.StatusBadRequest, TypeValidation},
		{"not found", NewNotFoundError("job not found"), http.StatusNotFound, TypeNotFound},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.status, apiErr.GetStatusCode())
			assert.Equal(t, tt.typ, apiErr.Type)
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestFromErrorValidationFields(t *testing.T) {
	err := fmt.Errorf("%w: %w", repositories.ErrInvalidInput, validation.Errors{
		{Field: "email", Tag: "email"},
		{Field: "type", Tag: "oneof", Param: "full-time part-time contract"},
	})

	apiErr := FromError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.GetStatusCode())
	require.Len(t, apiErr.Fields, 2)
	assert.Equal(t, "email", apiErr.Fields[0].Field)
	assert.Equal(t, "email must be a valid email address", apiErr.Fields[0].Message)
	assert.Equal(t, "oneof", apiErr.Fields[1].Code)
}

func TestWriteErrorMasksInternalErrors(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(contextutils.WithRequestID(r.Context(), "req-42"))
	w := httptest.NewRecorder()

	b.WriteError(w, r, errors.New("connection refused on /var/db"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "req-42", body.RequestID)
	assert.Equal(t, TypeInternal, body.Error.Type)
	assert.NotContains(t, body.Error.Message, "/var/db")
}

func TestWritePage(t *testing.T) {
	b := NewBuilder(&Config{}, zap.NewNop())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	page := models.NewPage([]string{"a", "b"}, 5, models.Pagination{Page: 2, Limit: 2})
	WritePage(b, w, r, page)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"data": ["a", "b"],
		"meta": {"pagination": {"page": 2, "limit": 2, "total": 5, "total_pages": 3, "has_next": true, "has_prev": true}}
	}`, w.Body.String())
}

func TestWriteNoContent(t *testing.T) {
	b := NewBuilder(nil, nil)
	w := httptest.NewRecorder()

	b.WriteNoContent(w, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBuilderSuccess(t *testing.T) {
	b := NewBuilder(nil, nil)
	ctx := contextutils.WithRequestID(context.Background(), "abc")

	resp := b.Success(ctx, map[string]int{"n": 1})
	assert.True(t, resp.Success)
	assert.Equal(t, "abc", resp.RequestID)
	assert.Equal(t, "v1", resp.Version)
	assert.NotZero(t, resp.Timestamp)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected models.Pagination
	}{
		{"defaults", "", models.Pagination{Page: 1, Limit: models.DefaultPageSize, SortOrder: models.SortDesc}},
		{"explicit", "page=3&limit=5&sort_by=title&sort_order=ASC", models.Pagination{Page: 3, Limit: 5, SortBy: "title", SortOrder: models.SortAsc}},
		{"aliases", "page_size=7&sort=company&order=asc", models.Pagination{Page: 1, Limit: 7, SortBy: "company", SortOrder: models.SortAsc}},
		{"clamped", "page=0&limit=500", models.Pagination{Page: 1, Limit: models.MaxPageSize, SortOrder: models.SortDesc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			p, err := ParsePagination(query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestParsePaginationRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"page=two", "limit=ten", "sort_order=sideways"} {
		t.Run(raw, func(t *testing.T) {
			query, err := url.ParseQuery(raw)
			require.NoError(t, err)

			_, err = ParsePagination(query)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, FromError(err).GetStatusCode())
		})
	}
}
