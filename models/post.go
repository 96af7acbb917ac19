package models

import "time"

// Post is an editorial content entry (article, announcement).
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	MemberOnly bool      `json:"member_only"`
	IsFeatured bool      `json:"is_featured"`
	Photos     []string  `json:"photos,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the Post model.
func (p Post) TableName() string {
	return "posts"
}
