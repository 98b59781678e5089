// Package rules is the small interpreter behind achievement conditions.
// A condition is a tree of data (thresholds, flags, All/Any) evaluated
// against named numeric facts, so catalogs can be declared, inspected and
// tested without closures.
package rules

import (
	"fmt"
	"strings"
)

// Facts exposes named values. Booleans are 0 or 1.
type Facts interface {
	Value(field string) (float64, bool)
}

// Condition is a predicate over facts. Unknown fields evaluate to false.
type Condition interface {
	Evaluate(f Facts) bool
	// Fields lists every fact name the condition reads.
	Fields() []string
	String() string
}

// Tracker reports {current, required} for locked progress bars.
type Tracker interface {
	Progress(f Facts) (current, required float64)
}

// Threshold is field >= Min. It also tracks its own progress.
type Threshold struct {
	Field string
	Min   float64
}

// CountAtLeast is Threshold for integer counters.
func CountAtLeast(field string, n int64) Threshold {
	return Threshold{Field: field, Min: float64(n)}
}

// RatingAtLeast is Threshold for fractional values such as average ratings.
func RatingAtLeast(field string, min float64) Threshold {
	return Threshold{Field: field, Min: min}
}

func (t Threshold) Evaluate(f Facts) bool {
	v, ok := f.Value(t.Field)
	return ok && v >= t.Min
}

func (t Threshold) Fields() []string { return []string{t.Field} }

func (t Threshold) String() string {
	return fmt.Sprintf("%s >= %g", t.Field, t.Min)
}

func (t Threshold) Progress(f Facts) (float64, float64) {
	v, _ := f.Value(t.Field)
	return v, t.Min
}

// Flag is true when the boolean fact is set.
type Flag struct {
	Field string
}

func IsTrue(field string) Flag {
	return Flag{Field: field}
}

func (c Flag) Evaluate(f Facts) bool {
	v, ok := f.Value(c.Field)
	return ok && v != 0
}

func (c Flag) Fields() []string { return []string{c.Field} }

func (c Flag) String() string { return c.Field }

func (c Flag) Progress(f Facts) (float64, float64) {
	if c.Evaluate(f) {
		return 1, 1
	}
	return 0, 1
}

// AllOf is true when every clause is. An empty AllOf is false so a
// mis-declared catalog entry cannot unlock for everyone.
type AllOf []Condition

func All(conds ...Condition) AllOf {
	return AllOf(conds)
}

func (a AllOf) Evaluate(f Facts) bool {
	if len(a) == 0 {
		return false
	}
	for _, c := range a {
		if !c.Evaluate(f) {
			return false
		}
	}
	return true
}

func (a AllOf) Fields() []string { return collectFields(a) }

func (a AllOf) String() string { return join(a, " AND ") }

// AnyOf is true when at least one clause is.
type AnyOf []Condition

func Any(conds ...Condition) AnyOf {
	return AnyOf(conds)
}

func (a AnyOf) Evaluate(f Facts) bool {
	for _, c := range a {
		if c.Evaluate(f) {
			return true
		}
	}
	return false
}

func (a AnyOf) Fields() []string { return collectFields(a) }

func (a AnyOf) String() string { return join(a, " OR ") }

func collectFields(conds []Condition) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range conds {
		for _, f := range c.Fields() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

func join(conds []Condition, sep string) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// TrackerFor returns c itself when it can report progress.
func TrackerFor(c Condition) Tracker {
	if t, ok := c.(Tracker); ok {
		return t
	}
	return nil
}
