package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    Pagination
		expected Pagination
	}{
		{"defaults", Pagination{}, Pagination{Page: 1, Limit: DefaultPageSize, SortOrder: SortDesc}},
		{"negative page", Pagination{Page: -3, Limit: 5}, Pagination{Page: 1, Limit: 5, SortOrder: SortDesc}},
		{"limit capped", Pagination{Page: 2, Limit: 1000}, Pagination{Page: 2, Limit: MaxPageSize, SortOrder: SortDesc}},
		{"ascending", Pagination{Page: 1, Limit: 10, SortBy: "title", SortOrder: " ASC "}, Pagination{Page: 1, Limit: 10, SortBy: "title", SortOrder: SortAsc}},
		{"unknown direction", Pagination{Page: 1, Limit: 10, SortOrder: "up"}, Pagination{Page: 1, Limit: 10, SortOrder: SortDesc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Normalize())
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, 41, Pagination{Page: 3, Limit: 20})

	assert.NotNil(t, page.Data)
	assert.EqualValues(t, 41, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	data, err := json.Marshal(NewPage([]string{}, 0, Pagination{Page: 1, Limit: 20}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"total":0,"page":1,"limit":20,"total_pages":0}`, string(data))
}

func TestStringListScan(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected StringList
	}{
		{"nil", nil, StringList{}},
		{"empty string", "", StringList{}},
		{"empty array", "[]", StringList{}},
		{"json null", "null", StringList{}},
		{"malformed", "[not json", StringList{}},
		{"string", `["A","B"]`, StringList{"A", "B"}},
		{"bytes", []byte(`["x"]`), StringList{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StringList
			require.NoError(t, s.Scan(tt.value))
			assert.Equal(t, tt.expected, s)
		})
	}

	var s StringList
	assert.Error(t, s.Scan(42))
}

func TestStringListEncoding(t *testing.T) {
	assert.Equal(t, "[]", EncodeStringList(nil))
	assert.Equal(t, "[]", EncodeStringList([]string{}))
	assert.Equal(t, `["a \"quoted\" value"]`, EncodeStringList([]string{`a "quoted" value`}))

	value, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	data, err := json.Marshal(struct {
		Tags StringList `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(data))
}

func TestJSONDocument(t *testing.T) {
	doc, err := NewJSONDocument(map[string]int{"a": 1})
	require.NoError(t, err)

	value, err := doc.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, value)

	var empty JSONDocument
	value, err = empty.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	data, err := json.Marshal(struct {
		Doc   JSONDocument `json:"doc"`
		Bad   JSONDocument `json:"bad"`
		Empty JSONDocument `json:"empty"`
	}{Doc: doc, Bad: JSONDocument("not json"), Empty: nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc":{"a":1},"bad":"not json","empty":null}`, string(data))

	var decoded struct {
		Doc JSONDocument `json:"doc"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"doc":{"nested":[1,2]}}`), &decoded))
	assert.JSONEq(t, `{"nested":[1,2]}`, string(decoded.Doc))
}

func TestFacetCounts(t *testing.T) {
	counts := FacetCounts{
		{Key: "contract", Count: 5},
		{Key: "other", Count: 4},
		{Key: "full-time", Count: 3},
		{Key: "part-time", Count: 1},
	}

	assert.EqualValues(t, 13, counts.Total())
	assert.EqualValues(t, 3, counts.Get("full-time"))
	assert.Zero(t, counts.Get("missing"))

	sorted := counts.SortByKeys([]string{JobTypeFullTime, JobTypePartTime, JobTypeContract})
	assert.Equal(t, FacetCounts{
		{Key: "full-time", Count: 3},
		{Key: "part-time", Count: 1},
		{Key: "contract", Count: 5},
		{Key: "other", Count: 4},
	}, sorted)
	assert.Equal(t, "contract", counts[0].Key, "original is untouched")
}

func TestApplicantFullName(t *testing.T) {
	assert.Equal(t, "Amina Otieno", (&Applicant{FirstName: "Amina", LastName: "Otieno"}).FullName())
	assert.Equal(t, "Amina", (&Applicant{FirstName: "Amina"}).FullName())
	assert.Equal(t, "Otieno", (&Applicant{LastName: "Otieno"}).FullName())
}
