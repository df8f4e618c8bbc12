// Package auth implements account registration and login. The rest of
// the application only ever sees the resulting user id; password
// handling stays behind this boundary.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/solestash/solestash/internal/models"
	"github.com/solestash/solestash/internal/repo"
)

// ErrInvalidCredentials covers both unknown usernames and wrong
// passwords, so a caller cannot tell which half failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the result of a successful login. The console shell keeps
// it in memory for the lifetime of the menu loop; the API hands the
// token to the client.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Service authenticates users against the store and mints session
// tokens.
type Service struct {
	users  *repo.UserRepo
	secret []byte
	expire time.Duration
}

// New returns a Service over the given user repository. expire bounds
// the lifetime of issued tokens.
func New(users *repo.UserRepo, secret []byte, expire time.Duration) *Service {
	return &Service{users: users, secret: secret, expire: expire}
}

// Register creates an account with a bcrypt-hashed password. Taken
// usernames and emails surface as repo.ErrUsernameTaken and
// repo.ErrEmailTaken; callers that pre-checked availability still get
// these when they lose the race to a concurrent insert.
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(username, email, string(hash))
}

// Login verifies the credentials, stamps last_login, and returns a
// session. Unknown username and bad password both come back as
// ErrInvalidCredentials; storage failures pass through untranslated.
func (s *Service) Login(username, password string) (*Session, error) {
	user, err := s.users.GetByUsername(username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed stamp must not block the login itself.
	_ = s.users.TouchLastLogin(user.ID)

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}

	return &Session{UserID: user.ID, Username: user.Username, Token: token}, nil
}

// UsernameTaken and EmailTaken back the registration pre-checks so the
// prompt loop can reject a taken name before asking for a password.

func (s *Service) UsernameTaken(username string) (bool, error) {
	return s.users.UsernameExists(username)
}

func (s *Service) EmailTaken(email string) (bool, error) {
	return s.users.EmailExists(email)
}

func (s *Service) mintToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.expire).Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
