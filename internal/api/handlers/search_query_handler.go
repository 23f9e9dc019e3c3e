package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/eceeb/search-portal/internal/services"
	"github.com/eceeb/search-portal/internal/validation"
)

const maxListLimit = 500

// SearchQueryHandler handles HTTP requests related to search queries.
type SearchQueryHandler struct {
	service services.SearchQueryServiceProvider
	users   services.UserServiceProvider
}

// NewSearchQueryHandler creates a new SearchQueryHandler. The user service
// resolves owners given by username or email.
func NewSearchQueryHandler(service services.SearchQueryServiceProvider, users services.UserServiceProvider) *SearchQueryHandler {
	return &SearchQueryHandler{service: service, users: users}
}

// Owner names the user a request acts for. The first non-empty field wins,
// in declaration order.
type Owner struct {
	UserID   string `json:"user_id" validate:"omitempty,uuid_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateSearchQueryPayload defines the structure for create requests.
type CreateSearchQueryPayload struct {
	SearchTerm string `json:"search_term" validate:"required,max=512"`
	WebsiteURL string `json:"website_url" validate:"required,web_url"`
	Owner
}

// DeleteSearchQueryPayload defines the structure for delete requests.
type DeleteSearchQueryPayload struct {
	ID string `json:"id" validate:"required,uuid_id"`
	Owner
}

// SearchQueryItem is one entry of a list response.
type SearchQueryItem struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"search_term"`
	WebsiteURL string    `json:"website_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create handles the request to store a new search query.
func (h *SearchQueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateSearchQueryPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Struct(payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := h.resolveOwner(r.Context(), w, payload.Owner)
	if !ok {
		return
	}

	query, err := h.service.CreateSearchQuery(r.Context(), userID, payload.SearchTerm, payload.WebsiteURL)
	if err != nil {
		handleServiceError(w, err, "Failed to create search query")
		return
	}

	respondJSON(w, http.StatusCreated, query)
}

// List handles GET requests. The owner comes from the user_id, username or
// email query parameter; limit is clamped to 1..500 and defaults to 50.
func (h *SearchQueryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := Owner{UserID: q.Get("user_id"), Username: q.Get("username"), Email: q.Get("email")}
	if err := validation.Struct(owner); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := h.resolveOwner(r.Context(), w, owner)
	if !ok {
		return
	}

	queries, err := h.service.ListSearchQueriesForUser(r.Context(), userID, parseLimit(q.Get("limit")))
	if err != nil {
		handleServiceError(w, err, "Failed to list search queries")
		return
	}

	items := make([]SearchQueryItem, 0, len(queries))
	for _, sq := range queries {
		items = append(items, SearchQueryItem{
			ID:         sq.ID,
			SearchTerm: sq.SearchTerm,
			WebsiteURL: sq.WebsiteURL,
			CreatedAt:  sq.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, items)
}

// Delete handles the request to delete a search query. A query that does not
// exist or belongs to someone else is reported as {"deleted": false}.
func (h *SearchQueryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var payload DeleteSearchQueryPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Struct(payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := h.resolveOwner(r.Context(), w, payload.Owner)
	if !ok {
		return
	}

	id := uuid.MustParse(payload.ID).String()
	deleted, err := h.service.DeleteSearchQuery(r.Context(), id, userID)
	if err != nil {
		handleServiceError(w, err, "Failed to delete search query")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// resolveOwner returns the owning user id. It writes the error response
// itself and reports false when the request cannot continue.
func (h *SearchQueryHandler) resolveOwner(ctx context.Context, w http.ResponseWriter, o Owner) (string, bool) {
	if o.UserID != "" {
		// already validated
		return uuid.MustParse(o.UserID).String(), true
	}

	var (
		lookup func(context.Context, string) (string, error)
		key    string
	)
	switch {
	case o.Username != "":
		lookup, key = h.userIDByUsername, o.Username
	case o.Email != "":
		lookup, key = h.userIDByEmail, o.Email
	default:
		respondError(w, http.StatusNotFound, "User not found")
		return "", false
	}

	id, err := lookup(ctx, key)
	if err != nil {
		handleServiceError(w, err, "Failed to resolve user")
		return "", false
	}
	if id == "" {
		respondError(w, http.StatusNotFound, "User not found")
		return "", false
	}
	return id, true
}

func (h *SearchQueryHandler) userIDByUsername(ctx context.Context, username string) (string, error) {
	u, err := h.users.FindByUsername(ctx, username)
	if err != nil || u == nil {
		return "", err
	}
	return u.ID, nil
}

func (h *SearchQueryHandler) userIDByEmail(ctx context.Context, email string) (string, error) {
	u, err := h.users.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return "", err
	}
	return u.ID, nil
}

// parseLimit reads the limit query parameter. Missing or non-numeric values
// give the default; numbers are clamped to 1..maxListLimit.
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return services.DefaultListLimit
	case n < 1:
		return 1
	case n > maxListLimit:
		return maxListLimit
	}
	return n
}
