package dto

import (
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type BlogPostRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Slug          string   `json:"slug" binding:"omitempty,slug"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt" binding:"required,max=500"`
	FeaturedImage string   `json:"featuredImage" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"omitempty,dive,required,max=50"`
	Published     bool     `json:"published"`
}

func (r BlogPostRequest) ToEntity() *entity.BlogPost {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entity.BlogPost{
		Title:         r.Title,
		Slug:          r.Slug,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		FeaturedImage: r.FeaturedImage,
		Tags:          tags,
		Published:     r.Published,
	}
}

type BlogPostResponse struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	FeaturedImage string        `json:"featuredImage"`
	Author        *UserResponse `json:"author"`
	Tags          []string      `json:"tags"`
	Published     bool          `json:"published"`
	PublishedAt   *time.Time    `json:"publishedAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func NewBlogPostResponse(p *entity.BlogPost) BlogPostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogPostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Author:        userRef(p.Author),
		Tags:          tags,
		Published:     p.Published,
		PublishedAt:   timePtr(p.PublishedAt),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type AboutPageRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	Content          string `json:"content" binding:"required"`
	HeroImage        string `json:"heroImage" binding:"omitempty,url"`
	MissionStatement string `json:"missionStatement" binding:"max=2000"`
	VisionStatement  string `json:"visionStatement" binding:"max=2000"`
	Active           *bool  `json:"active"`
}

func (r AboutPageRequest) ToEntity() *entity.AboutPage {
	return &entity.AboutPage{
		Title:            r.Title,
		Content:          r.Content,
		HeroImage:        r.HeroImage,
		MissionStatement: r.MissionStatement,
		VisionStatement:  r.VisionStatement,
		Active:           boolOr(r.Active, true),
	}
}

type AboutPageResponse struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	HeroImage        string    `json:"heroImage"`
	MissionStatement string    `json:"missionStatement"`
	VisionStatement  string    `json:"visionStatement"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewAboutPageResponse(p *entity.AboutPage) AboutPageResponse {
	return AboutPageResponse{
		ID:               p.ID,
		Title:            p.Title,
		Content:          p.Content,
		HeroImage:        p.HeroImage,
		MissionStatement: p.MissionStatement,
		VisionStatement:  p.VisionStatement,
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
