package types

// FieldKind is the type of a custom field value attached to a board item
type FieldKind string

const (
	FieldKindText         FieldKind = "text"
	FieldKindNumber       FieldKind = "number"
	FieldKindSingleSelect FieldKind = "singleSelect"
	FieldKindDate         FieldKind = "date"
	FieldKindIteration    FieldKind = "iteration"
)

// AllFieldKinds returns all supported field kinds
func AllFieldKinds() []FieldKind {
	return []FieldKind{
		FieldKindText,
		FieldKindNumber,
		FieldKindSingleSelect,
		FieldKindDate,
		FieldKindIteration,
	}
}

// IsValid checks if the field kind is supported
func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindText,
		FieldKindNumber,
		FieldKindSingleSelect,
		FieldKindDate,
		FieldKindIteration:
		return true
	default:
		return false
	}
}

func (k FieldKind) String() string {
	return string(k)
}
