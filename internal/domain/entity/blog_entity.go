package entity

import "time"

type BlogPost struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	AuthorID      int64
	Author        *User
	Tags          []string
	Published     bool
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Publish stamps PublishedAt the first time a post becomes published.
func (p *BlogPost) Publish(now time.Time) {
	p.Published = true
	if p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}
