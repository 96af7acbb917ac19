package models

import "time"

// Discussion types.
const (
	DiscussionTypeDiscussion = "discussion"
	DiscussionTypeEvent      = "event"
)

// Discussion is a topic or scheduled event container that chat messages
// attach to. RoomID names the real-time broadcast room for the discussion;
// by convention it equals the discussion ID.
type Discussion struct {
	ID        string     `json:"id"`
	Topic     string     `json:"topic"`
	Content   string     `json:"content"`
	Host      string     `json:"host"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	StartTime string     `json:"startTime,omitempty"`
	Type      string     `json:"type"`
	Emoji     string     `json:"emoji,omitempty"`
	RoomID    string     `json:"roomId,omitempty"`
	Photos    []string   `json:"photos,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the Discussion model.
func (d Discussion) TableName() string {
	return "discussions"
}
