package inventory

import (
	"errors"
	"strconv"

	"github.com/solestash/solestash/internal/models"
	"github.com/solestash/solestash/internal/repo"
)

// Selector narrows an owner's collection down to exactly one record
// through a four-stage funnel: brand, model, variant, representative
// record. Each stage is a grouped query ordered most-common-first with a
// lexical tie-break, so identical data always produces identical menus.
type Selector struct {
	shoes *repo.ShoeRepo
}

// NewSelector returns a Selector reading from the given repository.
func NewSelector(shoes *repo.ShoeRepo) *Selector {
	return &Selector{shoes: shoes}
}

// Brands is stage one: the owner's distinct brands with pair counts.
// An empty collection returns ErrNoShoes and the funnel stops here;
// callers must not continue to later stages.
func (s *Selector) Brands(ownerID int) ([]models.BrandCount, error) {
	brands, err := s.shoes.BrandCounts(ownerID)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, ErrNoShoes
	}
	return brands, nil
}

// Models is stage two: distinct models within the chosen brand. A brand
// that matches nothing returns ErrInvalidSelection so the caller can
// reprompt; brand input is free text and validated only by whether it
// yields models.
func (s *Selector) Models(ownerID int, brand string) ([]models.ModelCount, error) {
	mods, err := s.shoes.ModelCounts(ownerID, brand)
	if err != nil {
		return nil, err
	}
	if len(mods) == 0 {
		return nil, ErrInvalidSelection
	}
	return mods, nil
}

// Variants is stage three: distinct (colorway, size, condition) triples
// within brand+model. Duplicate pairs collapse into one variant row with
// their count. Same retry semantics as Models.
func (s *Selector) Variants(ownerID int, brand, model string) ([]models.VariantCount, error) {
	variants, err := s.shoes.VariantCounts(ownerID, brand, model)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, ErrInvalidSelection
	}
	return variants, nil
}

// PickVariant parses a 1-based menu choice against the presented variant
// list. Anything that is not an integer in [1, len(variants)] returns
// ErrInvalidSelection.
func PickVariant(variants []models.VariantCount, input string) (models.VariantCount, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(variants) {
		return models.VariantCount{}, ErrInvalidSelection
	}
	return variants[n-1], nil
}

// Resolve is stage four: fetch the representative record for the chosen
// variant, the lowest-id row among duplicates. Returns ErrNoShoes when
// the record vanished between selection and resolution.
func (s *Selector) Resolve(ownerID int, brand, model string, v models.VariantCount) (*models.Shoe, error) {
	shoe, err := s.shoes.ResolveVariant(ownerID, brand, model, v.Colorway, v.Size, v.Condition)
	if errors.Is(err, repo.ErrShoeNotFound) {
		return nil, ErrNoShoes
	}
	if err != nil {
		return nil, err
	}
	return shoe, nil
}
