package inventory

import (
	"github.com/solestash/solestash/internal/models"
	"github.com/solestash/solestash/internal/repo"
)

// Lister produces the read-only grouped overview of a collection.
type Lister struct {
	shoes *repo.ShoeRepo
}

// NewLister returns a Lister reading from the given repository.
func NewLister(shoes *repo.ShoeRepo) *Lister {
	return &Lister{shoes: shoes}
}

// Grouped returns (brand, model, count) rows for the owner, largest
// holdings first. Ties resolve by brand then model ascending so the
// listing is stable across runs.
func (l *Lister) Grouped(ownerID int) ([]models.ModelGroup, error) {
	return l.shoes.ListGrouped(ownerID)
}
