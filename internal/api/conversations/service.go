package conversations

import (
	"context"
	"fmt"
	"strings"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/gateway"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

// GatewayFactory builds a Cloud API client for one account.
type GatewayFactory func(phoneNumberID, accessToken string) *gateway.Client

type Service struct {
	db         *loaders.PostgresClient
	newGateway GatewayFactory
}

func NewService(db *loaders.PostgresClient, newGateway GatewayFactory) *Service {
	if newGateway == nil {
		newGateway = func(phoneNumberID, accessToken string) *gateway.Client {
			return gateway.NewClient(phoneNumberID, accessToken)
		}
	}
	return &Service{db: db, newGateway: newGateway}
}

func (s *Service) List(ctx context.Context, tenantID, status string, limit, offset int) ([]loaders.Conversation, error) {
	return s.db.ListConversations(ctx, tenantID, status, limit, offset)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*DetailResponse, error) {
	conv, err := s.db.GetConversation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	messages, err := s.db.ListMessages(ctx, tenantID, id, 0)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []loaders.Message{}
	}
	return &DetailResponse{Conversation: conv, Messages: messages}, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id string, req *UpdateRequest) (*loaders.Conversation, error) {
	return s.db.UpdateConversation(ctx, tenantID, id, req.Status, req.AssignedTo)
}

func (s *Service) MarkRead(ctx context.Context, tenantID, id string) error {
	return s.db.MarkConversationRead(ctx, tenantID, id)
}

// SendReply sends a manual agent reply through the tenant's active WhatsApp
// account and persists it as a non-AI outbound message.
func (s *Service) SendReply(ctx context.Context, tenantID, conversationID, body string) (*loaders.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("reply body is required")
	}

	conv, err := s.db.GetConversation(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}

	contact, err := s.db.GetContact(ctx, tenantID, conv.ContactID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation contact: %w", err)
	}

	account, err := s.db.GetActiveWhatsAppAccountByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("no active whatsapp account for tenant: %w", err)
	}

	gw := s.newGateway(account.PhoneNumberID, account.AccessToken)
	sentID, err := gw.SendText(ctx, contact.PhoneNumber, body, "")
	if err != nil {
		return nil, fmt.Errorf("failed to send reply: %w", err)
	}

	return s.db.RecordOutboundMessage(ctx, loaders.OutboundMessageRow{
		TenantID:          tenantID,
		ConversationID:    conversationID,
		Type:              "text",
		Content:           body,
		ProviderMessageID: sentID,
		AIGenerated:       false,
	})
}
