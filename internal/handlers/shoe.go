package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/metrics"
	"github.com/solestash/solestash/internal/middleware"
	"github.com/solestash/solestash/internal/models"
	"github.com/solestash/solestash/internal/repo"
)

// ShoeHandler serves the owner-scoped shoe endpoints. Every query is
// keyed to the authenticated user id from the token, never to a request
// parameter, so one owner can never touch another's rows.
type ShoeHandler struct {
	Shoes    *repo.ShoeRepo
	Selector *inventory.Selector
	Mutator  *inventory.Mutator
	Lister   *inventory.Lister
	Audit    *repo.AuditRepo
}

// owner pulls the authenticated user id out of the request context.
func owner(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

// ownedShoe fetches the record and hides it when it belongs to someone
// else; foreign rows 404 rather than 403 so ids do not leak.
func (h *ShoeHandler) ownedShoe(w http.ResponseWriter, r *http.Request, ownerID int) (*models.Shoe, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid shoe id", http.StatusBadRequest)
		return nil, false
	}

	shoe, err := h.Shoes.GetByID(id)
	if errors.Is(err, repo.ErrShoeNotFound) {
		JSONError(w, "shoe not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		JSONRepoError(w, err)
		return nil, false
	}
	if shoe.OwnerID != ownerID {
		JSONError(w, "shoe not found", http.StatusNotFound)
		return nil, false
	}
	return shoe, true
}

//
// ==========================
// List Shoes
// ==========================
//

func (h *ShoeHandler) ListShoes(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	shoes, err := h.Shoes.ListByOwner(ownerID, limit, offset)
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shoes)
}

//
// ==========================
// Create Shoe
// ==========================
//

func (h *ShoeHandler) CreateShoe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	var input struct {
		Brand     string  `json:"brand" validate:"required,min=1,max=100"`
		Model     string  `json:"model" validate:"required,min=1,max=100"`
		Colorway  string  `json:"colorway" validate:"required,min=1,max=100"`
		Size      float64 `json:"size" validate:"required,gte=1,lte=20"`
		Price     float64 `json:"price" validate:"required,gte=0.01,lte=100000"`
		Image     string  `json:"image" validate:"max=255"`
		Condition string  `json:"condition" validate:"required,min=1,max=50"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	shoe, err := h.Mutator.Add(ownerID, inventory.NewShoe{
		Brand:     input.Brand,
		Model:     input.Model,
		Colorway:  input.Colorway,
		Size:      input.Size,
		Price:     input.Price,
		Image:     input.Image,
		Condition: input.Condition,
	})
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	metrics.IncMutation("create")
	if h.Audit != nil {
		_ = h.Audit.Log(r.Context(), ownerID, "create", "shoe", shoe.ID, fmt.Sprintf("%s %s", shoe.Brand, shoe.Model))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(shoe)
}

//
// ==========================
// Get Shoe By ID
// ==========================
//

func (h *ShoeHandler) GetShoe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	shoe, ok := h.ownedShoe(w, r, ownerID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shoe)
}

//
// ==========================
// Update Single Field
// ==========================
//

func (h *ShoeHandler) UpdateShoeField(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	shoe, ok := h.ownedShoe(w, r, ownerID)
	if !ok {
		return
	}

	var input struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	field := inventory.Field(input.Field)
	if !field.Valid() {
		JSONError(w, "unknown field", http.StatusBadRequest)
		return
	}

	value, err := decodeFieldValue(field, input.Value)
	if err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.Mutator.UpdateField(shoe.ID, field, value)
	if errors.Is(err, repo.ErrShoeNotFound) {
		// Vanished between the ownership check and the write.
		JSONError(w, "shoe not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	metrics.IncMutation("update")
	if h.Audit != nil {
		_ = h.Audit.Log(r.Context(), ownerID, "update", "shoe", shoe.ID, string(field))
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeFieldValue checks the JSON value against the field's type and
// bounds. Only image may be empty; an empty image clears it.
func decodeFieldValue(field inventory.Field, raw json.RawMessage) (any, error) {
	if field.Numeric() {
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%s must be a number", field)
		}
		switch field {
		case inventory.FieldSize:
			if f < 1 || f > 20 {
				return nil, errors.New("size must be between 1 and 20")
			}
		case inventory.FieldPrice:
			if f < 0.01 || f > 100000 {
				return nil, errors.New("price must be between 0.01 and 100000")
			}
		}
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s must be a string", field)
	}
	if s == "" && field != inventory.FieldImage {
		return nil, fmt.Errorf("%s cannot be empty", field)
	}
	max := 100
	if field == inventory.FieldCondition {
		max = 50
	}
	if field == inventory.FieldImage {
		max = 255
	}
	if len(s) > max {
		return nil, fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return s, nil
}

//
// ==========================
// Delete Shoe
// ==========================
//

func (h *ShoeHandler) DeleteShoe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	shoe, ok := h.ownedShoe(w, r, ownerID)
	if !ok {
		return
	}

	err := h.Mutator.Delete(shoe.ID)
	if errors.Is(err, repo.ErrShoeNotFound) {
		JSONError(w, "shoe not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	metrics.IncMutation("delete")
	if h.Audit != nil {
		_ = h.Audit.Log(r.Context(), ownerID, "delete", "shoe", shoe.ID, fmt.Sprintf("%s %s", shoe.Brand, shoe.Model))
	}

	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Grouped Overview
// ==========================
//

func (h *ShoeHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	groups, err := h.Lister.Grouped(ownerID)
	if err != nil {
		JSONRepoError(w, err)
		return
	}
	if groups == nil {
		groups = []models.ModelGroup{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}

//
// ==========================
// Funnel: Brands
// ==========================
//

func (h *ShoeHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	brands, err := h.Selector.Brands(ownerID)
	if errors.Is(err, inventory.ErrNoShoes) {
		brands = []models.BrandCount{}
	} else if err != nil {
		JSONRepoError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(brands)
}

//
// ==========================
// Funnel: Models
// ==========================
//

func (h *ShoeHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	brand := r.URL.Query().Get("brand")
	if brand == "" {
		JSONError(w, "brand is required", http.StatusBadRequest)
		return
	}

	mods, err := h.Selector.Models(ownerID, brand)
	if errors.Is(err, inventory.ErrInvalidSelection) {
		mods = []models.ModelCount{}
	} else if err != nil {
		JSONRepoError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mods)
}

//
// ==========================
// Funnel: Variants
// ==========================
//

func (h *ShoeHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	brand := r.URL.Query().Get("brand")
	model := r.URL.Query().Get("model")
	if brand == "" || model == "" {
		JSONError(w, "brand and model are required", http.StatusBadRequest)
		return
	}

	variants, err := h.Selector.Variants(ownerID, brand, model)
	if errors.Is(err, inventory.ErrInvalidSelection) {
		variants = []models.VariantCount{}
	} else if err != nil {
		JSONRepoError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(variants)
}

//
// ==========================
// Funnel: Resolve Variant
// ==========================
//

func (h *ShoeHandler) ResolveVariant(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	brand := q.Get("brand")
	model := q.Get("model")
	colorway := q.Get("colorway")
	condition := q.Get("condition")
	size, sizeErr := strconv.ParseFloat(q.Get("size"), 64)
	if brand == "" || model == "" || colorway == "" || condition == "" || sizeErr != nil {
		JSONError(w, "brand, model, colorway, size, and condition are required", http.StatusBadRequest)
		return
	}

	shoe, err := h.Selector.Resolve(ownerID, brand, model, models.VariantCount{
		Colorway:  colorway,
		Size:      size,
		Condition: condition,
	})
	if errors.Is(err, inventory.ErrNoShoes) {
		JSONError(w, "no shoe found with the given criteria", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shoe)
}
