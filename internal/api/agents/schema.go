package agents

import "encoding/json"

type CreateRequest struct {
	Name          string          `json:"name" binding:"required"`
	PhoneNumberID *string         `json:"phone_number_id"`
	Config        json.RawMessage `json:"config"`
}

// UpdateRequest carries partial changes; nil fields are left untouched.
type UpdateRequest struct {
	Name          *string         `json:"name"`
	PhoneNumberID *string         `json:"phone_number_id"`
	Config        json.RawMessage `json:"config"`
}
