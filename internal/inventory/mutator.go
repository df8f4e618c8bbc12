package inventory

import (
	"fmt"

	"github.com/solestash/solestash/internal/models"
	"github.com/solestash/solestash/internal/repo"
)

// Mutator applies changes to individual shoe records. Every call is a
// single-row, single-statement write committed on its own; a failed call
// leaves the store exactly as it was.
type Mutator struct {
	shoes *repo.ShoeRepo
}

// NewMutator returns a Mutator writing through the given repository.
func NewMutator(shoes *repo.ShoeRepo) *Mutator {
	return &Mutator{shoes: shoes}
}

// Add inserts one pair into the owner's collection and returns the
// stored record with its assigned id. An empty image is stored as NULL.
func (m *Mutator) Add(ownerID int, n NewShoe) (*models.Shoe, error) {
	shoe := &models.Shoe{
		OwnerID:   ownerID,
		Brand:     n.Brand,
		Model:     n.Model,
		Colorway:  n.Colorway,
		Size:      n.Size,
		Price:     n.Price,
		Image:     imageValue(n.Image),
		Condition: n.Condition,
	}
	if err := m.shoes.Insert(shoe); err != nil {
		return nil, err
	}
	return shoe, nil
}

// UpdateField writes one field of one record. value must already carry
// the right type for the field: float64 for size and price, string for
// the rest. Setting image to the empty string clears it (stored NULL).
// A record that no longer exists returns repo.ErrShoeNotFound, which
// callers treat as a benign no-op rather than a failure.
func (m *Mutator) UpdateField(shoeID int, field Field, value any) error {
	if !field.Valid() {
		return fmt.Errorf("%w: field %q is not editable", repo.ErrData, field)
	}
	if field == FieldImage {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: image must be a string", repo.ErrData)
		}
		return m.shoes.UpdateField(shoeID, string(field), imageValue(s))
	}
	return m.shoes.UpdateField(shoeID, string(field), value)
}

// Delete removes one record by id. There is no soft delete. Zero rows
// affected surfaces as repo.ErrShoeNotFound, the same benign no-op as
// UpdateField.
func (m *Mutator) Delete(shoeID int) error {
	return m.shoes.DeleteByID(shoeID)
}

// imageValue maps an optional image filename to its stored form:
// empty means no image, stored as NULL.
func imageValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
