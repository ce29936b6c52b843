package contacts

import (
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/types"
)

// CreateRequest is the manual contact-creation payload
type CreateRequest struct {
	PhoneNumber string   `json:"phone_number" binding:"required"`
	WaID        string   `json:"wa_id"`
	DisplayName string   `json:"display_name"`
	OptedIn     bool     `json:"opted_in"`
	Tags        []string `json:"tags"`
}

// UpdateRequest carries partial contact updates; nil fields are left untouched
type UpdateRequest struct {
	DisplayName *string  `json:"display_name"`
	OptedIn     *bool    `json:"opted_in"`
	Tags        []string `json:"tags"`
}

// ListResponse is a page of contacts
type ListResponse struct {
	Contacts   []loaders.Contact `json:"contacts"`
	Pagination types.Pagination  `json:"pagination"`
}
