package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/eceeb/search-portal/internal/models"
)

var errDB = errors.New("connection reset by peer")

type fakeUserService struct {
	createFn func(ctx context.Context, username, email, password string) (*models.User, error)
	byName   map[string]*models.User
	byEmail  map[string]*models.User
	verifyFn func(ctx context.Context, id, password string) (*models.User, error)
	findErr  error
}

func (f *fakeUserService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	return f.createFn(ctx, username, email, password)
}

func (f *fakeUserService) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byName[username], nil
}

func (f *fakeUserService) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byEmail[email], nil
}

func (f *fakeUserService) VerifyUserPassword(ctx context.Context, id, password string) (*models.User, error) {
	return f.verifyFn(ctx, id, password)
}

type createCall struct {
	userID, term, url string
}

type deleteCall struct {
	id, userID string
}

type fakeSearchQueryService struct {
	created   []createCall
	createErr error

	listUserID string
	listLimit  int
	listResult []models.SearchQuery
	listErr    error

	deleted   []deleteCall
	deleteOK  bool
	deleteErr error
}

func (f *fakeSearchQueryService) CreateSearchQuery(_ context.Context, userID, term, url string) (*models.SearchQuery, error) {
	f.created = append(f.created, createCall{userID, term, url})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.SearchQuery{
		ID:         "6f1c1d7e-8a8b-4d3c-9a55-3b4f7f1f0a01",
		UserID:     userID,
		SearchTerm: term,
		WebsiteURL: url,
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeSearchQueryService) ListSearchQueriesForUser(_ context.Context, userID string, limit int) ([]models.SearchQuery, error) {
	f.listUserID, f.listLimit = userID, limit
	return f.listResult, f.listErr
}

func (f *fakeSearchQueryService) DeleteSearchQuery(_ context.Context, id, userID string) (bool, error) {
	f.deleted = append(f.deleted, deleteCall{id, userID})
	return f.deleteOK, f.deleteErr
}

func doRequest(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h(w, r)
	return w
}
