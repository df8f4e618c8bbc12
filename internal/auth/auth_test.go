package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/solestash/solestash/internal/repo"
)

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(repo.NewUserRepo(db), []byte("test-secret"), time.Hour), mock
}

func TestLogin_Success(t *testing.T) {
	svc, mock := newService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("kicks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "last_login"}).
			AddRow(3, "kicks", "kicks@example.com", string(hash), time.Now(), nil))
	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sess, err := svc.Login("kicks", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.UserID != 3 || sess.Username != "kicks" {
		t.Errorf("unexpected session: %+v", sess)
	}

	// The token must verify against the same secret and carry the user id.
	token, err := jwt.Parse(sess.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if int(claims["user_id"].(float64)) != 3 {
		t.Errorf("user_id claim = %v, want 3", claims["user_id"])
	}
	if claims["jti"] == "" {
		t.Error("missing jti claim")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock := newService(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)

	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("kicks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "last_login"}).
			AddRow(3, "kicks", "kicks@example.com", string(hash), time.Now(), nil))

	_, err := svc.Login("kicks", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_UnknownUsername(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "last_login"}))

	_, err := svc.Login("ghost", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("kicks", "kicks@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at"}).
			AddRow(3, "kicks", "kicks@example.com", time.Now()))

	user, err := svc.Register("kicks", "kicks@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 3 {
		t.Errorf("user.ID = %d, want 3", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRegister_TakenUsername(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("kicks", "kicks@example.com", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := svc.Register("kicks", "kicks@example.com", "hunter22")
	if !errors.Is(err, repo.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got: %v", err)
	}
}
