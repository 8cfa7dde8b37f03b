package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "plain statements",
			script: "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);",
			want:   []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"},
		},
		{
			name:   "line comments removed",
			script: "-- leading comment; with semicolon\nCREATE TABLE a (id INT); -- trailing\n",
			want:   []string{"CREATE TABLE a (id INT)"},
		},
		{
			name:   "block comments removed",
			script: "/* header; */ CREATE TABLE a (id INT);",
			want:   []string{"CREATE TABLE a (id INT)"},
		},
		{
			name:   "semicolon inside literal",
			script: "INSERT INTO t VALUES ('a;b');INSERT INTO t VALUES ('it''s; fine');",
			want:   []string{"INSERT INTO t VALUES ('a;b')", "INSERT INTO t VALUES ('it''s; fine')"},
		},
		{
			name:   "dashes inside literal",
			script: "INSERT INTO t VALUES ('--not a comment');",
			want:   []string{"INSERT INTO t VALUES ('--not a comment')"},
		},
		{
			name:   "empty statements skipped",
			script: ";;  ;\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}

func TestSchemaScriptLoadsEmbeddedMigrations(t *testing.T) {
	script, err := SchemaScript()
	require.NoError(t, err)

	statements := SplitStatements(script)
	require.NotEmpty(t, statements)
	for _, stmt := range statements {
		assert.NotContains(t, stmt, "--")
		assert.False(t, strings.HasPrefix(stmt, "/*"))
	}
	assert.Contains(t, script, "CREATE TABLE jobs")
	assert.Contains(t, script, "CREATE TABLE admins")
}
