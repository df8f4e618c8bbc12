package models

// NoImage is the placeholder shown for shoes without a stored image reference.
const NoImage = "No image available"

// Shoe is one physical pair. Two rows may be identical in every visible
// attribute (duplicate pairs are intentional); identity is the row id only.
type Shoe struct {
	ID        int     `json:"id"`
	OwnerID   int     `json:"user_id"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Colorway  string  `json:"colorway"`
	Size      float64 `json:"size"`
	Price     float64 `json:"price"`
	Image     *string `json:"image,omitempty"`
	Condition string  `json:"condition"`
}

// ImageLabel returns the stored image reference, or NoImage when unset.
func (s Shoe) ImageLabel() string {
	if s.Image == nil || *s.Image == "" {
		return NoImage
	}
	return *s.Image
}

// BrandCount is one row of the first funnel stage: a distinct brand in an
// owner's collection with the number of pairs carrying it.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// ModelCount is one row of the second funnel stage, scoped to a brand.
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// VariantCount is one row of the third funnel stage: a distinct
// (colorway, size, condition) triple within a brand+model group.
// Condition participates in the grouping, so the same colorway and size in
// different conditions are distinct variants.
type VariantCount struct {
	Colorway  string  `json:"colorway"`
	Size      float64 `json:"size"`
	Condition string  `json:"condition"`
	Count     int     `json:"count"`
}

// ModelGroup is one row of the grouped collection listing.
type ModelGroup struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Count int    `json:"count"`
}
