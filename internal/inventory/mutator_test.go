package inventory

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/solestash/solestash/internal/repo"
)

func newMutator(t *testing.T) (*Mutator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMutator(repo.NewShoeRepo(db)), mock
}

func TestMutator_Add(t *testing.T) {
	mut, mock := newMutator(t)

	mock.ExpectQuery(`INSERT INTO shoes`).
		WithArgs(7, "Nike", "Air Max 90", "Bacon", 9.5, 120.0, "nike_air_max_90_bacon.jpg", "New").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	shoe, err := mut.Add(7, NewShoe{
		Brand:     "Nike",
		Model:     "Air Max 90",
		Colorway:  "Bacon",
		Size:      9.5,
		Price:     120.0,
		Image:     "nike_air_max_90_bacon.jpg",
		Condition: "New",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if shoe.ID != 11 || shoe.OwnerID != 7 {
		t.Errorf("unexpected shoe: %+v", shoe)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMutator_Add_EmptyImageStoresNull(t *testing.T) {
	mut, mock := newMutator(t)

	mock.ExpectQuery(`INSERT INTO shoes`).
		WithArgs(7, "Nike", "Air Max 90", "Bacon", 9.5, 120.0, nil, "New").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	shoe, err := mut.Add(7, NewShoe{
		Brand:     "Nike",
		Model:     "Air Max 90",
		Colorway:  "Bacon",
		Size:      9.5,
		Price:     120.0,
		Condition: "New",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if shoe.Image != nil {
		t.Errorf("Image = %v, want nil", shoe.Image)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMutator_UpdateField(t *testing.T) {
	mut, mock := newMutator(t)

	mock.ExpectExec(`UPDATE shoes SET price = \$1 WHERE id = \$2`).
		WithArgs(95.0, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := mut.UpdateField(11, FieldPrice, 95.0); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMutator_UpdateField_ClearImage(t *testing.T) {
	mut, mock := newMutator(t)

	mock.ExpectExec(`UPDATE shoes SET image = \$1 WHERE id = \$2`).
		WithArgs(nil, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := mut.UpdateField(11, FieldImage, ""); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMutator_UpdateField_UnknownField(t *testing.T) {
	mut, mock := newMutator(t)

	err := mut.UpdateField(11, Field("owner"), "someone else")
	if !errors.Is(err, repo.ErrData) {
		t.Fatalf("expected ErrData, got: %v", err)
	}
	// The bad field never reaches the store.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMutator_UpdateField_VanishedIsBenign(t *testing.T) {
	mut, mock := newMutator(t)

	mock.ExpectExec(`UPDATE shoes SET brand = \$1 WHERE id = \$2`).
		WithArgs("Adidas", 404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := mut.UpdateField(404, FieldBrand, "Adidas")
	if !errors.Is(err, repo.ErrShoeNotFound) {
		t.Fatalf("expected ErrShoeNotFound, got: %v", err)
	}
}

func TestMutator_Delete(t *testing.T) {
	mut, mock := newMutator(t)

	mock.ExpectExec(`DELETE FROM shoes WHERE id = \$1`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := mut.Delete(11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFieldHelpers(t *testing.T) {
	for _, f := range EditableFields {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if Field("user_id").Valid() {
		t.Error("user_id must not be editable")
	}
	if !FieldSize.Numeric() || !FieldPrice.Numeric() {
		t.Error("size and price are numeric fields")
	}
	if FieldBrand.Numeric() {
		t.Error("brand is not a numeric field")
	}
}
