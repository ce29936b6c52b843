package agents

import (
	"context"
	"fmt"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/types"
)

type Service struct {
	db *loaders.PostgresClient
}

func NewService(db *loaders.PostgresClient) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]loaders.AIAgent, error) {
	return s.db.ListAgents(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*loaders.AIAgent, error) {
	return s.db.GetAgent(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID string, req *CreateRequest) (*loaders.AIAgent, error) {
	if err := validateConfig(req.Config); err != nil {
		return nil, err
	}
	return s.db.CreateAgent(ctx, &loaders.AIAgent{
		TenantID:      tenantID,
		Name:          req.Name,
		PhoneNumberID: req.PhoneNumberID,
		Config:        req.Config,
	})
}

func (s *Service) Update(ctx context.Context, tenantID, id string, req *UpdateRequest) (*loaders.AIAgent, error) {
	if err := validateConfig(req.Config); err != nil {
		return nil, err
	}
	return s.db.UpdateAgent(ctx, tenantID, id, req.Name, req.PhoneNumberID, req.Config)
}

func (s *Service) SetDefault(ctx context.Context, tenantID, id string) error {
	return s.db.SetDefaultAgent(ctx, tenantID, id)
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.db.DeleteAgent(ctx, tenantID, id)
}

// validateConfig rejects malformed config blobs before they reach the
// database, so reads never have to cope with an unparseable agent.
func validateConfig(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if _, err := types.ParseAgentConfig(raw); err != nil {
		return fmt.Errorf("invalid agent config: %w", err)
	}
	return nil
}
