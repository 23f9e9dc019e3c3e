package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eceeb/search-portal/internal/database"
	"github.com/eceeb/search-portal/internal/models"
)

// DefaultListLimit is the page size used when the caller passes no limit.
const DefaultListLimit = 50

const searchQueryColumns = "id, user_id, search_term, website_url, created_at"

// SearchQueryServiceProvider defines the interface for search query services.
type SearchQueryServiceProvider interface {
	CreateSearchQuery(ctx context.Context, userID, searchTerm, websiteURL string) (*models.SearchQuery, error)
	ListSearchQueriesForUser(ctx context.Context, userID string, limit int) ([]models.SearchQuery, error)
	DeleteSearchQuery(ctx context.Context, id, userID string) (bool, error)
}

// SearchQueryService stores search queries, always scoped to the owning user.
type SearchQueryService struct {
	db  database.DBTX
	now func() time.Time
}

var _ SearchQueryServiceProvider = (*SearchQueryService)(nil)

// NewSearchQueryService creates a new SearchQueryService.
func NewSearchQueryService(db database.DBTX) *SearchQueryService {
	return &SearchQueryService{db: db, now: time.Now}
}

func scanSearchQuery(scanner interface{ Scan(...any) error }) (*models.SearchQuery, error) {
	var q models.SearchQuery
	if err := scanner.Scan(&q.ID, &q.UserID, &q.SearchTerm, &q.WebsiteURL, database.Timestamp(&q.CreatedAt)); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateSearchQuery inserts a query for userID. The user is not looked up
// first; the foreign key rejects unknown ids and that surfaces as
// ErrUserNotFound.
func (s *SearchQueryService) CreateSearchQuery(ctx context.Context, userID, searchTerm, websiteURL string) (*models.SearchQuery, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO search_queries (id, user_id, search_term, website_url, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+searchQueryColumns,
		uuid.NewString(), userID, searchTerm, websiteURL, s.now().UTC().Truncate(time.Microsecond),
	)
	q, err := scanSearchQuery(row)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("insert search query: %w", err)
	}
	return q, nil
}

// ListSearchQueriesForUser returns up to limit queries of userID, newest
// first. A non-positive limit means DefaultListLimit.
func (s *SearchQueryService) ListSearchQueriesForUser(ctx context.Context, userID string, limit int) ([]models.SearchQuery, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.list(ctx,
		"SELECT "+searchQueryColumns+" FROM search_queries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limit,
	)
}

// DeleteSearchQuery removes the query only when both id and owner match, and
// reports whether a row was removed. A miss is not an error, so callers
// cannot probe for other users' ids.
func (s *SearchQueryService) DeleteSearchQuery(ctx context.Context, id, userID string) (bool, error) {
	var deleted string
	err := s.db.QueryRowContext(ctx,
		"DELETE FROM search_queries WHERE id = $1 AND user_id = $2 RETURNING id",
		id, userID,
	).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("delete search query: %w", err)
	}
	return true, nil
}

// ListRecent returns the newest queries across all users.
func (s *SearchQueryService) ListRecent(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	return s.list(ctx,
		"SELECT "+searchQueryColumns+" FROM search_queries ORDER BY created_at DESC LIMIT $1",
		limit,
	)
}

// Count returns the number of stored search queries.
func (s *SearchQueryService) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_queries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count search queries: %w", err)
	}
	return n, nil
}

func (s *SearchQueryService) list(ctx context.Context, query string, args ...any) ([]models.SearchQuery, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list search queries: %w", err)
	}
	defer rows.Close()

	queries := []models.SearchQuery{}
	for rows.Next() {
		q, err := scanSearchQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search query: %w", err)
		}
		queries = append(queries, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list search queries: %w", err)
	}
	return queries, nil
}
