package models

import "time"

// Work is a portfolio project.
type Work struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImgURL      string    `gorm:"column:img_url;size:500" json:"imgUrl"`
	ImgLink     string    `gorm:"column:img_link;size:500" json:"imgLink"`
	Content     string    `gorm:"type:text" json:"content"`
	Tags        []string  `gorm:"serializer:json;type:text" json:"tags"`
	GitHubURL   string    `gorm:"column:github_url;size:500" json:"gitHubUrl"`
	GitPageURL  string    `gorm:"column:git_page_url;size:500" json:"gitPageUrl"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Skill is a technical skill group shown on the portfolio.
type Skill struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	Title   string   `gorm:"size:100;not null" json:"title"`
	Icon    string   `gorm:"size:255;not null" json:"icon"`
	Details []string `gorm:"serializer:json;type:text" json:"details"`
	Order   int      `gorm:"column:sort_order;default:0" json:"order"`
}

// SocialMedia is an external profile link.
type SocialMedia struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Link  string `gorm:"size:500;not null" json:"link"`
	Order int    `gorm:"column:sort_order;default:0" json:"order"`
}

// SelfContent is the self introduction. Only the first row is served.
type SelfContent struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BriefIntro string   `gorm:"type:text" json:"briefIntro"`
	About      string   `gorm:"type:text" json:"about"`
	HashTags   []string `gorm:"serializer:json;type:text" json:"hashTags"`
}

func (Work) TableName() string        { return "works" }
func (Skill) TableName() string       { return "skills" }
func (SocialMedia) TableName() string { return "social_media" }
func (SelfContent) TableName() string { return "self_content" }
