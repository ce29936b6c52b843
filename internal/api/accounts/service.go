package accounts

import (
	"context"
	"fmt"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/cache"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

type Service struct {
	db       *loaders.PostgresClient
	accCache *cache.AccountCache
}

func NewService(db *loaders.PostgresClient, accCache *cache.AccountCache) *Service {
	return &Service{db: db, accCache: accCache}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]loaders.WhatsAppAccount, error) {
	return s.db.ListWhatsAppAccounts(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*loaders.WhatsAppAccount, error) {
	return s.db.GetWhatsAppAccount(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID string, req *CreateRequest) (*loaders.WhatsAppAccount, error) {
	return s.db.CreateWhatsAppAccount(ctx, &loaders.WhatsAppAccount{
		TenantID:      tenantID,
		PhoneNumber:   req.PhoneNumber,
		PhoneNumberID: req.PhoneNumberID,
		WabaID:        req.WabaID,
		AccessToken:   req.AccessToken,
		VerifyToken:   req.VerifyToken,
		DisplayName:   req.DisplayName,
	})
}

func (s *Service) Update(ctx context.Context, tenantID, id string, req *UpdateRequest) (*loaders.WhatsAppAccount, error) {
	if req.Status != nil && *req.Status != "active" && *req.Status != "inactive" {
		return nil, fmt.Errorf("invalid status %q", *req.Status)
	}
	acc, err := s.db.UpdateWhatsAppAccount(ctx, tenantID, id, req.DisplayName, req.Status)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, acc.PhoneNumberID)
	return acc, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	acc, err := s.db.GetWhatsAppAccount(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteWhatsAppAccount(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, acc.PhoneNumberID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, phoneNumberID string) {
	if s.accCache != nil {
		s.accCache.Invalidate(ctx, phoneNumberID)
	}
}
