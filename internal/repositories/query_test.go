package repositories

import (
	"testing"
	"time"

	"hirehub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilderSkipsAbsentValues(t *testing.T) {
	blank := "   "
	zero := 0.0
	var zeroTime time.Time

	where := newWhere().
		eq("status", nil).
		eq("category", &blank).
		search(nil, "title", "company").
		gte("salary_min", &zero).
		lte("salary_max", nil).
		after("created_at", &zeroTime).
		eqBool("featured", nil)

	assert.Empty(t, where.String())
	assert.Empty(t, where.Args())
}

func TestWhereBuilderRendersPredicatesInOrder(t *testing.T) {
	status := "active"
	search := "nurse"
	featured := true
	minSalary := 1000.0
	after := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("EAT", 3*3600))

	where := newWhere().
		eq("status", &status).
		search(&search, "title", "company").
		eqBool("featured", &featured).
		gte("salary_min", &minSalary).
		after("created_at", &after)

	assert.Equal(t,
		` WHERE status = ? AND (title LIKE ? ESCAPE '\' OR company LIKE ? ESCAPE '\') AND featured = ? AND salary_min >= ? AND created_at >= ?`,
		where.String(),
	)
	assert.Equal(t, []interface{}{"active", "%nurse%", "%nurse%", true, 1000.0, after.UTC()}, where.Args())
}

func TestWhereBuilderArgsIsACopy(t *testing.T) {
	status := "active"
	where := newWhere().eq("status", &status)

	args := where.Args()
	args[0] = "tampered"

	assert.Equal(t, []interface{}{"active"}, where.Args())
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "nurse", "nurse"},
		{"percent", "100%", `100\%`},
		{"underscore", "a_b", `a\_b`},
		{"backslash", `c:\x`, `c:\\x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeLike(tt.input))
		})
	}
}

func TestJSONContainsMatchesEncodedElement(t *testing.T) {
	skill := "Go"
	where := newWhere().jsonContains("skills", &skill)

	assert.Equal(t, ` WHERE skills LIKE ? ESCAPE '\'`, where.String())
	assert.Equal(t, []interface{}{`%"Go"%`}, where.Args())
}

func TestSortSpecOrderBy(t *testing.T) {
	spec := sortSpec{
		columns:  map[string]string{"title": "j.title", "created_at": "j.created_at"},
		fallback: "j.created_at",
		tiebreak: "j.id",
	}

	tests := []struct {
		name     string
		page     models.Pagination
		expected string
	}{
		{"default", models.Pagination{}, " ORDER BY j.created_at DESC, j.id DESC"},
		{"known column ascending", models.Pagination{SortBy: "Title", SortOrder: models.SortAsc}, " ORDER BY j.title ASC, j.id ASC"},
		{"unknown column falls back", models.Pagination{SortBy: "title; DROP TABLE jobs", SortOrder: models.SortAsc}, " ORDER BY j.created_at DESC, j.id DESC"},
		{"bad direction", models.Pagination{SortBy: "title", SortOrder: "sideways"}, " ORDER BY j.title DESC, j.id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, spec.orderBy(tt.page))
		})
	}
}

func TestSetBuilder(t *testing.T) {
	set := newSet()
	assert.True(t, set.empty())

	title := "Nurse"
	reqs := []string{"A"}
	setField(set, "title", &title)
	setField[string](set, "company", nil)
	set.list("requirements", &reqs)
	set.expr("reviewed_at", "CASE WHEN status <> ? THEN ? ELSE reviewed_at END", "reviewed", "now")

	assert.False(t, set.empty())
	assert.Equal(t, "title = ?, requirements = ?, reviewed_at = CASE WHEN status <> ? THEN ? ELSE reviewed_at END", set.String())
	assert.Equal(t, []interface{}{"Nurse", `["A"]`, "reviewed", "now"}, set.args)
}

func TestGenerateID(t *testing.T) {
	a := generateID(prefixJob)
	b := generateID(prefixJob)

	assert.Regexp(t, `^job_\d{13}_[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}

func TestCompactQuery(t *testing.T) {
	assert.Equal(t, "SELECT id FROM jobs WHERE id = ?", compactQuery("\n\tSELECT id\n\t  FROM jobs\n WHERE id = ?  "))
}
