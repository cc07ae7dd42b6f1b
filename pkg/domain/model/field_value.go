package model

import (
	"strings"

	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

// FieldValue is one typed custom field value attached to a board item.
// Exactly one of the typed slots is expected to be set, matching Kind.
type FieldValue struct {
	FieldName string          `json:"fieldName"`
	Kind      types.FieldKind `json:"kind"`
	Text      *string         `json:"text,omitempty"`
	Number    *float64        `json:"number,omitempty"`
	Name      *string         `json:"name,omitempty"`
	Date      *string         `json:"date,omitempty"`
	Title     *string         `json:"title,omitempty"`
}

// Value returns the populated slot for the field kind: string for text,
// single select, date and iteration, float64 for number. Nil when the slot
// is empty.
func (v FieldValue) Value() any {
	switch v.Kind {
	case types.FieldKindText:
		return nonEmpty(v.Text)
	case types.FieldKindNumber:
		if v.Number == nil {
			return nil
		}
		return *v.Number
	case types.FieldKindSingleSelect:
		return nonEmpty(v.Name)
	case types.FieldKindDate:
		return nonEmpty(v.Date)
	case types.FieldKindIteration:
		return nonEmpty(v.Title)
	default:
		return nil
	}
}

func nonEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// FieldValues is the heterogeneous field value list of one board item
type FieldValues []FieldValue

// Lookup returns the value of the first field matching one of aliases.
// Aliases are tried in order and compared case-insensitively with the field
// name; fields whose slot is empty are skipped. Nil when nothing matches.
func (fv FieldValues) Lookup(aliases ...string) any {
	for _, alias := range aliases {
		for _, field := range fv {
			if !strings.EqualFold(field.FieldName, alias) {
				continue
			}
			if v := field.Value(); v != nil {
				return v
			}
		}
	}
	return nil
}

// LookupString is Lookup restricted to string values
func (fv FieldValues) LookupString(aliases ...string) (string, bool) {
	s, ok := fv.Lookup(aliases...).(string)
	return s, ok
}
