package models

import "time"

// Message is a single chat line inside a discussion.
//
// The 4-tuple (Text, Sender, DiscussionID, Timestamp) is treated as the
// message's natural key: a second insert attempt with an identical tuple is
// rejected, which is what suppresses duplicate deliveries from flaky
// real-time clients. Timestamp is client-supplied with millisecond
// granularity.
type Message struct {
	ID string `json:"id"`

	Text string `json:"text"`

	// Sender references the authoring user.
	Sender string `json:"sender"`

	// SenderShow is a display-name snapshot taken at send time, so renamed
	// accounts keep their historical attribution.
	SenderShow string `json:"senderShow"`

	DiscussionID string `json:"discussionId"`

	Timestamp time.Time `json:"timestamp"`
}

// TableName returns the name of the database table
// associated with the Message model.
func (m Message) TableName() string {
	return "messages"
}
