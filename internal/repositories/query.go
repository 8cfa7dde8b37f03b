package repositories

import (
	"encoding/json"
	"strings"
	"time"

	"hirehub/internal/models"
)

// ===============================
// WHERE CLAUSE BUILDER
// ===============================

// whereBuilder collects parameterised predicates. Each helper adds its
// predicate only when the filter value is present, so an absent field never
// narrows (or empties) the result set. Values always travel as bound args.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func newWhere() *whereBuilder {
	return &whereBuilder{}
}

// add appends a raw predicate with its args
func (w *whereBuilder) add(clause string, args ...interface{}) *whereBuilder {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
	return w
}

// eq adds column = value for a non-empty string
func (w *whereBuilder) eq(column string, value *string) *whereBuilder {
	if v, ok := present(value); ok {
		w.add(column+" = ?", v)
	}
	return w
}

// eqBool adds column = 0/1
func (w *whereBuilder) eqBool(column string, value *bool) *whereBuilder {
	if value != nil {
		w.add(column+" = ?", *value)
	}
	return w
}

// search adds a bracketed OR group of case-insensitive substring matches
func (w *whereBuilder) search(value *string, columns ...string) *whereBuilder {
	v, ok := present(value)
	if !ok || len(columns) == 0 {
		return w
	}

	pattern := "%" + escapeLike(v) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = col + ` LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return w.add("("+strings.Join(parts, " OR ")+")", args...)
}

// like adds a single-column case-insensitive substring match
func (w *whereBuilder) like(column string, value *string) *whereBuilder {
	return w.search(value, column)
}

// jsonContains matches rows whose JSON array column holds value as an element
func (w *whereBuilder) jsonContains(column string, value *string) *whereBuilder {
	v, ok := present(value)
	if !ok {
		return w
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return w
	}
	return w.add(column+` LIKE ? ESCAPE '\'`, "%"+escapeLike(string(encoded))+"%")
}

// gte adds column >= value; zero counts as absent
func (w *whereBuilder) gte(column string, value *float64) *whereBuilder {
	if value != nil && *value != 0 {
		w.add(column+" >= ?", *value)
	}
	return w
}

// lte adds column <= value; zero counts as absent
func (w *whereBuilder) lte(column string, value *float64) *whereBuilder {
	if value != nil && *value != 0 {
		w.add(column+" <= ?", *value)
	}
	return w
}

// after adds column >= t
func (w *whereBuilder) after(column string, t *time.Time) *whereBuilder {
	if t != nil && !t.IsZero() {
		w.add(column+" >= ?", t.UTC())
	}
	return w
}

// before adds column <= t
func (w *whereBuilder) before(column string, t *time.Time) *whereBuilder {
	if t != nil && !t.IsZero() {
		w.add(column+" <= ?", t.UTC())
	}
	return w
}

// String renders " WHERE a AND b", or "" when nothing was added
func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns a copy of the bound arguments in predicate order
func (w *whereBuilder) Args() []interface{} {
	out := make([]interface{}, len(w.args))
	copy(out, w.args)
	return out
}

func present(value *string) (string, bool) {
	if value == nil {
		return "", false
	}
	v := strings.TrimSpace(*value)
	return v, v != ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards in user input
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ===============================
// ORDER BY
// ===============================

// sortSpec whitelists the sortable columns of one listing
type sortSpec struct {
	columns  map[string]string // request key -> column expression
	fallback string            // default column, newest first
	tiebreak string            // unique column keeping pages stable
}

// orderBy renders the ORDER BY clause for p. Unknown sort keys fall back to
// the default column; direction is only ever ASC or DESC.
func (s sortSpec) orderBy(p models.Pagination) string {
	column, ok := s.columns[strings.ToLower(strings.TrimSpace(p.SortBy))]
	direction := "DESC"
	if ok && p.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	if !ok {
		column = s.fallback
	}

	clause := " ORDER BY " + column + " " + direction
	if s.tiebreak != "" && s.tiebreak != column {
		clause += ", " + s.tiebreak + " " + direction
	}
	return clause
}

// ===============================
// SET CLAUSE BUILDER
// ===============================

// setBuilder collects the assignments of a partial update
type setBuilder struct {
	sets []string
	args []interface{}
}

func newSet() *setBuilder {
	return &setBuilder{}
}

func (s *setBuilder) set(column string, value interface{}) {
	s.sets = append(s.sets, column+" = ?")
	s.args = append(s.args, value)
}

// expr assigns a raw expression; args bind to its placeholders
func (s *setBuilder) expr(column, expression string, args ...interface{}) {
	s.sets = append(s.sets, column+" = "+expression)
	s.args = append(s.args, args...)
}

// list re-encodes a sequence field to its JSON column form
func (s *setBuilder) list(column string, value *[]string) {
	if value != nil {
		s.set(column, models.EncodeStringList(*value))
	}
}

func (s *setBuilder) empty() bool {
	return len(s.sets) == 0
}

func (s *setBuilder) String() string {
	return strings.Join(s.sets, ", ")
}

// setField assigns column when the partial input carries a value
func setField[T any](s *setBuilder, column string, value *T) {
	if value != nil {
		s.set(column, *value)
	}
}
