package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/solestash/solestash/internal/models"
)

// ==========================
// ShoeRepo
// ==========================
type ShoeRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewShoeRepo(db *sql.DB) *ShoeRepo {
	return &ShoeRepo{DB: db}
}

// ==========================
// Drill-down: Brands
// ==========================
func (r *ShoeRepo) BrandCounts(ownerID int) ([]models.BrandCount, error) {
	query := `
		SELECT brand, COUNT(*) AS quantity
		FROM shoes
		WHERE user_id = $1
		GROUP BY brand
		ORDER BY quantity DESC, brand ASC
		LIMIT 20
	`

	rows, err := r.DB.Query(query, ownerID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var brands []models.BrandCount
	for rows.Next() {
		var b models.BrandCount
		if err := rows.Scan(&b.Brand, &b.Count); err != nil {
			return nil, translateErr(err)
		}
		brands = append(brands, b)
	}
	return brands, translateErr(rows.Err())
}

// ==========================
// Drill-down: Models
// ==========================
func (r *ShoeRepo) ModelCounts(ownerID int, brand string) ([]models.ModelCount, error) {
	query := `
		SELECT model, COUNT(*) AS quantity
		FROM shoes
		WHERE user_id = $1 AND brand = $2
		GROUP BY model
		ORDER BY quantity DESC, model ASC
		LIMIT 20
	`

	rows, err := r.DB.Query(query, ownerID, brand)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var mods []models.ModelCount
	for rows.Next() {
		var m models.ModelCount
		if err := rows.Scan(&m.Model, &m.Count); err != nil {
			return nil, translateErr(err)
		}
		mods = append(mods, m)
	}
	return mods, translateErr(rows.Err())
}

// ==========================
// Drill-down: Variants
// ==========================
func (r *ShoeRepo) VariantCounts(ownerID int, brand, model string) ([]models.VariantCount, error) {
	query := `
		SELECT colorway, size, condition, COUNT(*) AS quantity
		FROM shoes
		WHERE user_id = $1
			AND brand = $2
			AND model = $3
		GROUP BY colorway, size, condition
		ORDER BY quantity DESC, colorway ASC, size ASC, condition ASC
		LIMIT 50
	`

	rows, err := r.DB.Query(query, ownerID, brand, model)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var variants []models.VariantCount
	for rows.Next() {
		var v models.VariantCount
		if err := rows.Scan(&v.Colorway, &v.Size, &v.Condition, &v.Count); err != nil {
			return nil, translateErr(err)
		}
		variants = append(variants, v)
	}
	return variants, translateErr(rows.Err())
}

// ==========================
// Drill-down: Resolve Variant
// ==========================

// ResolveVariant picks the representative record for a variant tuple.
// Duplicate pairs share every attribute, so the lowest id stands in for
// the group.
func (r *ShoeRepo) ResolveVariant(ownerID int, brand, model, colorway string, size float64, condition string) (*models.Shoe, error) {
	query := `
		SELECT id, user_id, brand, model, colorway, size, price, image, condition
		FROM shoes
		WHERE user_id = $1
			AND brand = $2
			AND model = $3
			AND colorway = $4
			AND size = $5
			AND condition = $6
		ORDER BY id ASC
		LIMIT 1
	`

	shoe := &models.Shoe{}

	err := r.DB.QueryRow(query, ownerID, brand, model, colorway, size, condition).
		Scan(&shoe.ID, &shoe.OwnerID, &shoe.Brand, &shoe.Model, &shoe.Colorway, &shoe.Size, &shoe.Price, &shoe.Image, &shoe.Condition)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShoeNotFound
	}
	if err != nil {
		return nil, translateErr(err)
	}

	return shoe, nil
}

// ==========================
// Get By ID
// ==========================
func (r *ShoeRepo) GetByID(id int) (*models.Shoe, error) {
	query := `
		SELECT id, user_id, brand, model, colorway, size, price, image, condition
		FROM shoes
		WHERE id = $1
	`

	shoe := &models.Shoe{}

	err := r.DB.QueryRow(query, id).
		Scan(&shoe.ID, &shoe.OwnerID, &shoe.Brand, &shoe.Model, &shoe.Colorway, &shoe.Size, &shoe.Price, &shoe.Image, &shoe.Condition)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShoeNotFound
	}
	if err != nil {
		return nil, translateErr(err)
	}

	return shoe, nil
}

// ==========================
// Insert Shoe
// ==========================
func (r *ShoeRepo) Insert(s *models.Shoe) error {
	query := `
		INSERT INTO shoes (user_id, brand, model, colorway, size, price, image, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.DB.QueryRow(query, s.OwnerID, s.Brand, s.Model, s.Colorway, s.Size, s.Price, s.Image, s.Condition).
		Scan(&s.ID)

	return translateErr(err)
}

// ==========================
// Update Single Field
// ==========================

// Editable shoe columns. Anything else is rejected before touching SQL.
var shoeColumns = map[string]bool{
	"brand":     true,
	"model":     true,
	"colorway":  true,
	"size":      true,
	"price":     true,
	"image":     true,
	"condition": true,
}

func (r *ShoeRepo) UpdateField(id int, column string, value any) error {
	if !shoeColumns[column] {
		return fmt.Errorf("%w: column %q is not editable", ErrData, column)
	}

	result, err := r.DB.Exec(
		fmt.Sprintf(`UPDATE shoes SET %s = $1 WHERE id = $2`, column),
		value, id,
	)
	if err != nil {
		return translateErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return translateErr(err)
	}

	if rows == 0 {
		return ErrShoeNotFound
	}

	return nil
}

// ==========================
// Delete Shoe
// ==========================
func (r *ShoeRepo) DeleteByID(id int) error {
	result, err := r.DB.Exec(`DELETE FROM shoes WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return translateErr(err)
	}

	if rows == 0 {
		return ErrShoeNotFound
	}

	return nil
}

// ==========================
// Grouped Overview
// ==========================
func (r *ShoeRepo) ListGrouped(ownerID int) ([]models.ModelGroup, error) {
	query := `
		SELECT brand, model, COUNT(*) AS quantity
		FROM shoes
		WHERE user_id = $1
		GROUP BY brand, model
		ORDER BY quantity DESC, brand ASC, model ASC
	`

	rows, err := r.DB.Query(query, ownerID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var groups []models.ModelGroup
	for rows.Next() {
		var g models.ModelGroup
		if err := rows.Scan(&g.Brand, &g.Model, &g.Count); err != nil {
			return nil, translateErr(err)
		}
		groups = append(groups, g)
	}
	return groups, translateErr(rows.Err())
}

// ==========================
// List By Owner
// ==========================
func (r *ShoeRepo) ListByOwner(ownerID, limit, offset int) ([]models.Shoe, error) {
	query := `
		SELECT id, user_id, brand, model, colorway, size, price, image, condition
		FROM shoes
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.Query(query, ownerID, limit, offset)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var shoes []models.Shoe
	for rows.Next() {
		var s models.Shoe
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Brand, &s.Model, &s.Colorway, &s.Size, &s.Price, &s.Image, &s.Condition); err != nil {
			return nil, translateErr(err)
		}
		shoes = append(shoes, s)
	}
	return shoes, translateErr(rows.Err())
}

// ==========================
// Counts
// ==========================
func (r *ShoeRepo) CountByOwner(ownerID int) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM shoes WHERE user_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, translateErr(err)
	}
	return n, nil
}

func (r *ShoeRepo) Count() (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM shoes`).Scan(&n)
	if err != nil {
		return 0, translateErr(err)
	}
	return n, nil
}
