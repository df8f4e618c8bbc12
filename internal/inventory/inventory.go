// Package inventory contains the business logic for working with a shoe
// collection: the drill-down selector that narrows a collection to one
// record, the mutator that applies single-field changes, and the grouped
// lister. The services are free of prompt/terminal concerns; callers own
// the reprompt loops and feed validated input in.
package inventory

import "errors"

var (
	// ErrNoShoes means the owner's collection (or the narrowed slice of
	// it) is empty and the operation cannot proceed.
	ErrNoShoes = errors.New("no shoes in inventory")

	// ErrInvalidSelection means the supplied brand, model, or variant
	// number matched nothing; the caller should reprompt and retry.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Field names an editable shoe attribute. The values double as column
// names in the store.
type Field string

const (
	FieldBrand     Field = "brand"
	FieldModel     Field = "model"
	FieldColorway  Field = "colorway"
	FieldSize      Field = "size"
	FieldPrice     Field = "price"
	FieldImage     Field = "image"
	FieldCondition Field = "condition"
)

// EditableFields lists the fields in edit-menu order.
var EditableFields = []Field{
	FieldBrand,
	FieldModel,
	FieldColorway,
	FieldSize,
	FieldPrice,
	FieldImage,
	FieldCondition,
}

// Valid reports whether f names an editable field.
func (f Field) Valid() bool {
	for _, known := range EditableFields {
		if f == known {
			return true
		}
	}
	return false
}

// Numeric reports whether the field holds a number rather than text.
func (f Field) Numeric() bool {
	return f == FieldSize || f == FieldPrice
}

// NewShoe carries the attributes for one pair about to be added.
// All values have already passed prompt-level validation; Image may be
// empty, which stores NULL.
type NewShoe struct {
	Brand     string
	Model     string
	Colorway  string
	Size      float64
	Price     float64
	Image     string
	Condition string
}
