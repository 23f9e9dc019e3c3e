package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/eceeb/search-portal/internal/database/dbtest"
)

// stepClock advances one second per call so rows never share a timestamp.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// newSQLiteServices returns both services on one fresh database, with a cheap
// bcrypt cost and a deterministic clock.
func newSQLiteServices(t *testing.T) (*UserService, *SearchQueryService, *sql.DB) {
	t.Helper()
	db := dbtest.Open(t)
	clock := newStepClock()

	users := NewUserService(db)
	users.cost = bcrypt.MinCost
	users.now = clock.Now

	queries := NewSearchQueryService(db)
	queries.now = clock.Now

	return users, queries, db.DB
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

var userCols = []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

var queryCols = []string{"id", "user_id", "search_term", "website_url", "created_at"}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
