package conversations

import (
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

// UpdateRequest carries status/assignment changes; nil fields are left untouched
type UpdateRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assigned_to"`
}

// ReplyRequest is a manual agent reply sent from the inbox
type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// DetailResponse is a conversation with its message history
type DetailResponse struct {
	Conversation *loaders.Conversation `json:"conversation"`
	Messages     []loaders.Message     `json:"messages"`
}
