package models

import "time"

// CourseVideo is one uploaded lesson video attached to a course. Stored as
// part of the course's jsonb videos column.
type CourseVideo struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	TutorRemarks string `json:"tutorremarks,omitempty"`
}

// Course is a published or pending learning course authored by a tutor.
//
// Slug is generated from Title on creation and is unique; a numeric suffix
// is appended on collision. IsApproved starts false and is flipped by an
// admin through the approval endpoint, optionally with a DisapprovalReason
// when rejected.
type Course struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Slug              string        `json:"slug"`
	PromotionURL      string        `json:"promotionUrl,omitempty"`
	Categories        []string      `json:"categories"`
	Description       string        `json:"description"`
	LearningOutcomes  string        `json:"learningOutcomes"`
	Duration          float64       `json:"duration"`
	Photos            []string      `json:"photos,omitempty"`
	Price             float64       `json:"price"`
	IsFeatured        bool          `json:"is_featured"`
	IsApproved        bool          `json:"is_approved"`
	DisapprovalReason string        `json:"disapprovalReason,omitempty"`
	LearningModes     []string      `json:"learningModes"`
	Videos            []CourseVideo `json:"videos,omitempty"`
	Tutor             string        `json:"tutor"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the Course model.
func (c Course) TableName() string {
	return "courses"
}
