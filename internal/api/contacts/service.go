package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

type Service struct {
	db *loaders.PostgresClient
}

func NewService(db *loaders.PostgresClient) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, tenantID, search string, page, pageSize int) ([]loaders.Contact, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	return s.db.ListContacts(ctx, tenantID, search, pageSize, (page-1)*pageSize)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*loaders.Contact, error) {
	return s.db.GetContact(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID string, req *CreateRequest) (*loaders.Contact, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, fmt.Errorf("phone_number is required")
	}
	waID := req.WaID
	if waID == "" {
		waID = phone
	}
	return s.db.CreateContact(ctx, &loaders.Contact{
		TenantID:    tenantID,
		PhoneNumber: phone,
		WaID:        waID,
		DisplayName: req.DisplayName,
		OptedIn:     req.OptedIn,
		Tags:        req.Tags,
	})
}

func (s *Service) Update(ctx context.Context, tenantID, id string, req *UpdateRequest) (*loaders.Contact, error) {
	return s.db.UpdateContact(ctx, tenantID, id, req.DisplayName, req.OptedIn, req.Tags)
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.db.DeleteContact(ctx, tenantID, id)
}
