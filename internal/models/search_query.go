package models

import "time"

// SearchQuery is a search term plus the website it targets, owned by one user.
type SearchQuery struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SearchTerm string    `json:"search_term"`
	WebsiteURL string    `json:"website_url"`
	CreatedAt  time.Time `json:"created_at"`
}
