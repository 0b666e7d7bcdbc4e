package entity

import "time"

// Category is a node of the self-referential catalog tree.
// ParentName and HasChildren are read-side projections filled by repositories.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ImageURL    string
	ParentID    *int64
	ParentName  string
	HasChildren bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
