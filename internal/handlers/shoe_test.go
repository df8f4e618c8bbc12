package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/repo"
)

func newShoeHandler(t *testing.T) (*ShoeHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	shoes := repo.NewShoeRepo(db)
	return &ShoeHandler{
		Shoes:    shoes,
		Selector: inventory.NewSelector(shoes),
		Mutator:  inventory.NewMutator(shoes),
		Lister:   inventory.NewLister(shoes),
		Audit:    repo.NewAuditRepo(db),
	}, mock
}

// withID adds a chi URL parameter the way the router would.
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestShoeHandler_ListBrands_EmptyCollection(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`GROUP BY brand`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"brand", "quantity"}))

	req := authed(httptest.NewRequest("GET", "/shoes/brands", nil), 7)
	rr := httptest.NewRecorder()
	h.ListBrands(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListBrands status: got %d, want 200", rr.Code)
	}
	if got := rr.Body.String(); got != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}

func TestShoeHandler_ListVariants_RequiresBrandAndModel(t *testing.T) {
	h, _ := newShoeHandler(t)

	req := authed(httptest.NewRequest("GET", "/shoes/variants?brand=Nike", nil), 7)
	rr := httptest.NewRecorder()
	h.ListVariants(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("ListVariants status: got %d, want 400", rr.Code)
	}
}

func TestShoeHandler_ResolveVariant_Miss(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`ORDER BY id ASC`).
		WithArgs(7, "Nike", "AirMax90", "Bacon", 9.5, "New").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "brand", "model", "colorway", "size", "price", "image", "condition"}))

	req := authed(httptest.NewRequest("GET",
		"/shoes/resolve?brand=Nike&model=AirMax90&colorway=Bacon&size=9.5&condition=New", nil), 7)
	rr := httptest.NewRecorder()
	h.ResolveVariant(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("ResolveVariant status: got %d, want 404", rr.Code)
	}
}

func TestShoeHandler_CreateShoe(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`INSERT INTO shoes`).
		WithArgs(7, "Nike", "Dunk Low", "Panda", 10.0, 120.0, nil, "New").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(7, "create", "shoe", 42, "Nike Dunk Low").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body, _ := json.Marshal(map[string]interface{}{
		"brand":     "Nike",
		"model":     "Dunk Low",
		"colorway":  "Panda",
		"size":      10.0,
		"price":     120.0,
		"condition": "New",
	})
	req := authed(httptest.NewRequest("POST", "/shoes", bytes.NewReader(body)), 7)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateShoe(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("CreateShoe status: got %d, want 201", rr.Code)
	}
	var shoe struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&shoe); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if shoe.ID != 42 {
		t.Errorf("shoe.ID = %d, want 42", shoe.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestShoeHandler_CreateShoe_ValidationFails(t *testing.T) {
	h, _ := newShoeHandler(t)

	// Size out of range: no SQL may run.
	body, _ := json.Marshal(map[string]interface{}{
		"brand":     "Nike",
		"model":     "Dunk Low",
		"colorway":  "Panda",
		"size":      35.0,
		"price":     120.0,
		"condition": "New",
	})
	req := authed(httptest.NewRequest("POST", "/shoes", bytes.NewReader(body)), 7)
	rr := httptest.NewRecorder()
	h.CreateShoe(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreateShoe status: got %d, want 400", rr.Code)
	}
}

func TestShoeHandler_UpdateShoeField(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`FROM shoes\s+WHERE id`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "brand", "model", "colorway", "size", "price", "image", "condition"}).
			AddRow(11, 7, "Nike", "AirMax90", "Bacon", 9.5, 120.0, nil, "New"))
	mock.ExpectExec(`UPDATE shoes SET price`).
		WithArgs(150.0, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(7, "update", "shoe", 11, "price").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body, _ := json.Marshal(map[string]interface{}{"field": "price", "value": 150.0})
	req := authed(withID(httptest.NewRequest("PATCH", "/shoes/11", bytes.NewReader(body)), "11"), 7)
	rr := httptest.NewRecorder()
	h.UpdateShoeField(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("UpdateShoeField status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestShoeHandler_UpdateShoeField_ForeignOwnerHidden(t *testing.T) {
	h, mock := newShoeHandler(t)

	// The row exists but belongs to owner 9; owner 7 gets a 404 and no
	// UPDATE runs.
	mock.ExpectQuery(`FROM shoes\s+WHERE id`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "brand", "model", "colorway", "size", "price", "image", "condition"}).
			AddRow(11, 9, "Nike", "AirMax90", "Bacon", 9.5, 120.0, nil, "New"))

	body, _ := json.Marshal(map[string]interface{}{"field": "price", "value": 150.0})
	req := authed(withID(httptest.NewRequest("PATCH", "/shoes/11", bytes.NewReader(body)), "11"), 7)
	rr := httptest.NewRecorder()
	h.UpdateShoeField(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("UpdateShoeField status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestShoeHandler_UpdateShoeField_UnknownField(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`FROM shoes\s+WHERE id`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "brand", "model", "colorway", "size", "price", "image", "condition"}).
			AddRow(11, 7, "Nike", "AirMax90", "Bacon", 9.5, 120.0, nil, "New"))

	body, _ := json.Marshal(map[string]interface{}{"field": "owner", "value": 1})
	req := authed(withID(httptest.NewRequest("PATCH", "/shoes/11", bytes.NewReader(body)), "11"), 7)
	rr := httptest.NewRecorder()
	h.UpdateShoeField(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("UpdateShoeField status: got %d, want 400", rr.Code)
	}
}

func TestShoeHandler_DeleteShoe(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`FROM shoes\s+WHERE id`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "brand", "model", "colorway", "size", "price", "image", "condition"}).
			AddRow(11, 7, "Nike", "AirMax90", "Bacon", 9.5, 120.0, nil, "New"))
	mock.ExpectExec(`DELETE FROM shoes`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(7, "delete", "shoe", 11, "Nike AirMax90").
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := authed(withID(httptest.NewRequest("DELETE", "/shoes/11", nil), "11"), 7)
	rr := httptest.NewRecorder()
	h.DeleteShoe(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("DeleteShoe status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestShoeHandler_ListGroups(t *testing.T) {
	h, mock := newShoeHandler(t)

	mock.ExpectQuery(`GROUP BY brand, model`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"brand", "model", "quantity"}).
			AddRow("Nike", "AirMax90", 2).
			AddRow("Adidas", "Samba", 1))

	req := authed(httptest.NewRequest("GET", "/shoes/groups", nil), 7)
	rr := httptest.NewRecorder()
	h.ListGroups(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListGroups status: got %d, want 200", rr.Code)
	}
	var groups []struct {
		Brand string `json:"brand"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&groups); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(groups) != 2 || groups[0].Brand != "Nike" || groups[0].Count != 2 {
		t.Errorf("unexpected groups: %+v", groups)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
