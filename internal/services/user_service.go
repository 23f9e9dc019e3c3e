package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/eceeb/search-portal/internal/database"
	"github.com/eceeb/search-portal/internal/models"
)

// PasswordCost is the bcrypt work factor for stored password hashes.
const PasswordCost = 12

// fallbackDummyHash is a valid cost-12 hash compared against when no random
// dummy hash could be generated.
const fallbackDummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// generateHash is a seam for bcrypt.GenerateFromPassword.
var generateHash = bcrypt.GenerateFromPassword

const userColumns = "id, username, email, password_hash, created_at, updated_at"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyUserPassword(ctx context.Context, usernameOrEmail, password string) (*models.User, error)
}

// UserService stores accounts in the users table.
type UserService struct {
	db   database.DBTX
	cost int
	now  func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

var _ UserServiceProvider = (*UserService)(nil)

// NewUserService creates a new UserService.
func NewUserService(db database.DBTX) *UserService {
	return &UserService{db: db, cost: PasswordCost, now: time.Now}
}

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := scanner.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		database.Timestamp(&u.CreatedAt), database.Timestamp(&u.UpdatedAt)); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a new user. It fails with ErrDuplicateIdentity when
// the username or the email is already taken, including when a concurrent
// registration wins the race at the unique constraint. The returned record
// carries the password hash; callers must not expose it.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username = $1 OR email = $2 LIMIT 1",
		username, email,
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, ErrDuplicateIdentity
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.timestamp()
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING `+userColumns,
		uuid.NewString(), username, email, string(hash), now,
	)
	user, err := scanUser(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindByUsername returns the user with exactly this username, or nil.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1 LIMIT 1", username)
}

// FindByEmail returns the user with exactly this email, or nil.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1 LIMIT 1", email)
}

// VerifyUserPassword looks the identifier up as username or email and checks
// the password against the stored hash. Unknown identities and wrong
// passwords both yield a nil user and a nil error.
func (s *UserService) VerifyUserPassword(ctx context.Context, usernameOrEmail, password string) (*models.User, error) {
	user, err := s.findOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1 LIMIT 1",
		usernameOrEmail,
	)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// burn the same bcrypt time as a real comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

// ListRecent returns the newest users first.
func (s *UserService) ListRecent(ctx context.Context, limit int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *UserService) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := generateHash([]byte(uuid.NewString()), s.cost)
		if err != nil {
			log.Error().Err(err).Msg("Failed to generate dummy password hash, using fallback")
			h = []byte(fallbackDummyHash)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *UserService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
