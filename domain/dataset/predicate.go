package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Predicate selects rows by their categorical columns.
type Predicate interface {
	Match(row Row) bool
	// Columns lists every column the predicate reads.
	Columns() []string
	String() string
}

type allRows struct{}

// All matches every row.
func All() Predicate { return allRows{} }

func (allRows) Match(Row) bool    { return true }
func (allRows) Columns() []string { return nil }
func (allRows) String() string    { return "all rows" }

type equals struct {
	column string
	value  Value
	negate bool
}

// Eq matches rows whose column equals value.
func Eq(column, value string) Predicate {
	return equals{column: column, value: ParseValue(value)}
}

// Ne matches rows whose column differs from value.
func Ne(column, value string) Predicate {
	return equals{column: column, value: ParseValue(value), negate: true}
}

func (p equals) Match(row Row) bool {
	cell, ok := row[p.column]
	if !ok {
		return false
	}
	return cell.Equal(p.value) != p.negate
}

func (p equals) Columns() []string { return []string{p.column} }

func (p equals) String() string {
	op := "=="
	if p.negate {
		op = "!="
	}
	return fmt.Sprintf("%s %s %s", p.column, op, p.value)
}

type memberOf struct {
	column string
	values []Value
}

// In matches rows whose column equals any of values.
func In(column string, values ...string) Predicate {
	parsed := make([]Value, len(values))
	for i, v := range values {
		parsed[i] = ParseValue(v)
	}
	return memberOf{column: column, values: parsed}
}

func (p memberOf) Match(row Row) bool {
	cell, ok := row[p.column]
	if !ok {
		return false
	}
	for _, v := range p.values {
		if cell.Equal(v) {
			return true
		}
	}
	return false
}

func (p memberOf) Columns() []string { return []string{p.column} }

func (p memberOf) String() string {
	labels := make([]string, len(p.values))
	for i, v := range p.values {
		labels[i] = v.String()
	}
	return fmt.Sprintf("%s in [%s]", p.column, strings.Join(labels, ", "))
}

type conjunction struct {
	parts []Predicate
	any   bool
}

// And matches rows satisfying every part. An empty And matches everything.
func And(parts ...Predicate) Predicate {
	if len(parts) == 1 {
		return parts[0]
	}
	return conjunction{parts: parts}
}

// Or matches rows satisfying at least one part.
func Or(parts ...Predicate) Predicate {
	if len(parts) == 1 {
		return parts[0]
	}
	return conjunction{parts: parts, any: true}
}

func (p conjunction) Match(row Row) bool {
	if len(p.parts) == 0 {
		return !p.any
	}
	for _, part := range p.parts {
		if part.Match(row) == p.any {
			return p.any
		}
	}
	return !p.any
}

func (p conjunction) Columns() []string {
	return mergeColumns(p.parts...)
}

func (p conjunction) String() string {
	if len(p.parts) == 0 {
		return allRows{}.String()
	}
	sep := " && "
	if p.any {
		sep = " || "
	}
	rendered := make([]string, len(p.parts))
	for i, part := range p.parts {
		rendered[i] = part.String()
		if _, nested := part.(conjunction); nested {
			rendered[i] = "(" + rendered[i] + ")"
		}
	}
	return strings.Join(rendered, sep)
}

type negation struct {
	inner Predicate
}

// Not inverts a predicate.
func Not(p Predicate) Predicate { return negation{inner: p} }

func (p negation) Match(row Row) bool { return !p.inner.Match(row) }
func (p negation) Columns() []string  { return p.inner.Columns() }
func (p negation) String() string     { return "!(" + p.inner.String() + ")" }

func mergeColumns(parts ...Predicate) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, part := range parts {
		for _, c := range part.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
