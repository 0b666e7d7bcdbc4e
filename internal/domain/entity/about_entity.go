package entity

import "time"

// AboutPage is CMS content; at most one page is active at a time.
type AboutPage struct {
	ID               int64
	Title            string
	Content          string
	HeroImage        string
	MissionStatement string
	VisionStatement  string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
