// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate implements declarative request validation. Routes attach
// a Schema describing the expected shape of a JSON body; Apply checks the
// whole input in one pass and reports every violation, not just the first.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Type is the expected JSON type of a field.
type Type string

const (
	String Type = "string"
	Number Type = "number"
	Bool   Type = "bool"
)

// Format is an additional constraint on string fields.
type Format string

const (
	FormatNone Format = ""
	FormatUUID Format = "uuid"
	FormatDate Format = "date" // YYYY-MM-DD
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Field declares the constraints for one schema field.
type Field struct {
	Type     Type
	Required bool
	Format   Format
	Min      *float64 // numeric lower bound, inclusive
	Max      *float64 // numeric upper bound, inclusive
	MinLen   int      // string length lower bound; 0 means unset
	MaxLen   int      // string length upper bound; 0 means unset
	Default  any      // applied when the field is absent
}

// Schema maps field names to their constraints.
type Schema map[string]Field

// Violation is one failed constraint.
type Violation struct {
	Field   string
	Message string
}

// Num is a convenience for building bound pointers.
func Num(v float64) *float64 { return &v }

// Apply validates input against the schema. It returns the normalized
// object (unknown fields stripped, defaults applied) and the complete list
// of violations. The normalized object is only meaningful when the
// violation list is empty.
func (s Schema) Apply(input map[string]any) (map[string]any, []Violation) {
	out := make(map[string]any, len(s))
	var violations []Violation

	for name, rule := range s {
		raw, present := input[name]
		if !present || raw == nil {
			if rule.Required {
				violations = append(violations, Violation{name, fmt.Sprintf("%q is required", name)})
				continue
			}
			if rule.Default != nil {
				out[name] = rule.Default
			}
			continue
		}

		switch rule.Type {
		case String:
			str, ok := raw.(string)
			if !ok {
				violations = append(violations, Violation{name, fmt.Sprintf("%q must be a string", name)})
				continue
			}
			violations = append(violations, checkString(name, str, rule)...)
			out[name] = str
		case Number:
			// encoding/json decodes every number as float64
			num, ok := raw.(float64)
			if !ok {
				violations = append(violations, Violation{name, fmt.Sprintf("%q must be a number", name)})
				continue
			}
			violations = append(violations, checkNumber(name, num, rule)...)
			out[name] = num
		case Bool:
			b, ok := raw.(bool)
			if !ok {
				violations = append(violations, Violation{name, fmt.Sprintf("%q must be a boolean", name)})
				continue
			}
			out[name] = b
		}
	}

	return out, violations
}

func checkString(name, str string, rule Field) []Violation {
	var v []Violation
	if rule.MinLen > 0 && len(str) < rule.MinLen {
		v = append(v, Violation{name, fmt.Sprintf("%q must be at least %d characters", name, rule.MinLen)})
	}
	if rule.MaxLen > 0 && len(str) > rule.MaxLen {
		v = append(v, Violation{name, fmt.Sprintf("%q must be at most %d characters", name, rule.MaxLen)})
	}
	switch rule.Format {
	case FormatUUID:
		if _, err := uuid.Parse(str); err != nil {
			v = append(v, Violation{name, fmt.Sprintf("%q must be a valid UUID", name)})
		}
	case FormatDate:
		if !dateRe.MatchString(str) {
			v = append(v, Violation{name, fmt.Sprintf("%q must be a date in YYYY-MM-DD format", name)})
		} else if _, err := time.Parse("2006-01-02", str); err != nil {
			v = append(v, Violation{name, fmt.Sprintf("%q is not a valid calendar date", name)})
		}
	}
	return v
}

func checkNumber(name string, num float64, rule Field) []Violation {
	var v []Violation
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return []Violation{{name, fmt.Sprintf("%q must be a finite number", name)}}
	}
	if rule.Min != nil && num < *rule.Min {
		v = append(v, Violation{name, fmt.Sprintf("%q must be at least %v", name, *rule.Min)})
	}
	if rule.Max != nil && num > *rule.Max {
		v = append(v, Violation{name, fmt.Sprintf("%q must be at most %v", name, *rule.Max)})
	}
	return v
}
