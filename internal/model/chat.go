package model

import (
	"github.com/google/uuid"
)

type Conversation struct {
	Base
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	StaffID    uuid.UUID `db:"staff_id" json:"staff_id"`
	Subject    string    `db:"subject" json:"subject,omitempty"`
}

type Message struct {
	Base
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Body           string    `db:"body" json:"body"`
	ReadAt         *string   `db:"read_at" json:"read_at,omitempty"`
}

type Group struct {
	Base
	Name      string    `db:"name" json:"name"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
}

type GroupMember struct {
	GroupID uuid.UUID `db:"group_id" json:"group_id"`
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
}

type GroupMessage struct {
	Base
	GroupID  uuid.UUID `db:"group_id" json:"group_id"`
	SenderID uuid.UUID `db:"sender_id" json:"sender_id"`
	Body     string    `db:"body" json:"body"`
}

type StartConversationRequest struct {
	StaffID uuid.UUID `json:"staff_id" binding:"required"`
	Subject string    `json:"subject" binding:"max=200"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

type CreateGroupRequest struct {
	Name    string      `json:"name" binding:"required,max=160"`
	Members []uuid.UUID `json:"members"`
}
