// Package cli implements the administrative subcommands: inspect and
// create-user.
package cli

import (
	"context"

	"github.com/eceeb/search-portal/internal/models"
)

// InspectLimit is how many of the newest rows inspect prints per table.
const InspectLimit = 20

// UserStore is the part of services.UserService the commands use.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	VerifyUserPassword(ctx context.Context, usernameOrEmail, password string) (*models.User, error)
	ListRecent(ctx context.Context, limit int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

// SearchQueryStore is the part of services.SearchQueryService the commands use.
type SearchQueryStore interface {
	ListRecent(ctx context.Context, limit int) ([]models.SearchQuery, error)
	Count(ctx context.Context) (int, error)
}
