package accounts

type CreateRequest struct {
	PhoneNumber   string  `json:"phone_number" binding:"required"`
	PhoneNumberID string  `json:"phone_number_id" binding:"required"`
	WabaID        string  `json:"waba_id" binding:"required"`
	AccessToken   string  `json:"access_token" binding:"required"`
	VerifyToken   *string `json:"verify_token"`
	DisplayName   string  `json:"display_name"`
}

// UpdateRequest carries partial changes; nil fields are left untouched.
type UpdateRequest struct {
	DisplayName *string `json:"display_name"`
	Status      *string `json:"status"`
}
