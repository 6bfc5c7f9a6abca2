package models

import "time"

// Message is a stored gratitude message.
type Message struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
	IsActive  bool      `gorm:"index;not null;default:true"`
	PositionX *int
	PositionY *int
	Duration  float64 `gorm:"not null;default:4"`
}

func (Message) TableName() string { return "messages" }

type JsonMessage struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	PositionX *int    `json:"positionX"`
	PositionY *int    `json:"positionY"`
	Duration  float64 `json:"duration"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// CreateMessageRequest is the body of POST /messages and the payload of a
// client message:new event. Pointers tell a missing field from a zero one.
type CreateMessageRequest struct {
	Text      *string  `json:"text" validate:"required"`
	PositionX *float64 `json:"positionX" validate:"required"`
	PositionY *float64 `json:"positionY" validate:"required"`
	Duration  *float64 `json:"duration"`
}

// RejectError is returned when a submission fails validation. Reason is
// safe to show to the author.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string { return e.Reason }
