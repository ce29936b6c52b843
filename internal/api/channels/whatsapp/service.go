package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/agent"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/gateway"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/llm"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/utils"
)

const (
	// Auto-responses use fixed model settings; per-agent overrides are not a
	// thing the dashboard exposes.
	responseTemperature = 0.7
	responseMaxTokens   = 1024

	historyLimit = 10
)

// AccountResolver resolves inbound routing keys to WhatsApp accounts.
// Satisfied by both the Postgres client and the Redis read-through cache.
type AccountResolver interface {
	GetWhatsAppAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*loaders.WhatsAppAccount, error)
}

// Store is the persistence surface the ingestion pipeline needs, satisfied by
// *loaders.PostgresClient.
type Store interface {
	UpsertContact(ctx context.Context, tenantID, phoneNumber, waID, displayName string) (*loaders.Contact, error)
	GetOrCreateActiveConversation(ctx context.Context, tenantID, contactID string) (*loaders.Conversation, error)
	RecordInboundMessage(ctx context.Context, row loaders.InboundMessageRow) (bool, error)
	RecordOutboundMessage(ctx context.Context, row loaders.OutboundMessageRow) (*loaders.Message, error)
	GetConversationHistory(ctx context.Context, conversationID string, limit int) ([]loaders.HistoryEntry, error)
	UpdateMessageDeliveryStatus(ctx context.Context, providerMessageID, status string, eventTime time.Time) error
	ResolveAgentForPhoneNumber(ctx context.Context, tenantID, phoneNumberID string) (*loaders.AIAgent, error)
	GetDefaultAgent(ctx context.Context, tenantID string) (*loaders.AIAgent, error)
}

// GatewayFactory builds a Cloud API client for one account. Injected so tests
// can point the client at a local server.
type GatewayFactory func(phoneNumberID, accessToken string) *gateway.Client

// Service processes webhook events: message ingestion, delivery-status
// updates, and the conditional AI auto-response.
type Service struct {
	db         Store
	accounts   AccountResolver
	cfg        *config.Config
	provider   llm.Provider
	hours      *agent.HoursEvaluator
	newGateway GatewayFactory
}

func NewService(db Store, accounts AccountResolver, cfg *config.Config, provider llm.Provider, opts ...ServiceOption) *Service {
	s := &Service{
		db:       db,
		accounts: accounts,
		cfg:      cfg,
		provider: provider,
		hours:    agent.NewHoursEvaluator(db),
		newGateway: func(phoneNumberID, accessToken string) *gateway.Client {
			return gateway.NewClient(phoneNumberID, accessToken)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServiceOption overrides service collaborators.
type ServiceOption func(*Service)

// WithGatewayFactory replaces the Cloud API client constructor.
func WithGatewayFactory(f GatewayFactory) ServiceOption {
	return func(s *Service) { s.newGateway = f }
}

// ProcessPayload fans out over every entry/change/message/status combination
// in array order. Per-item failures are logged and never fail the webhook:
// Meta must receive 200 to avoid redelivery storms.
func (s *Service) ProcessPayload(ctx context.Context, payload *WebhookPayload) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value
			for i := range value.Messages {
				if err := s.processMessage(ctx, &value, &value.Messages[i]); err != nil {
					utils.Zlog.Error("failed to process inbound message",
						zap.String("phone_number_id", value.Metadata.PhoneNumberID),
						zap.String("message_id", value.Messages[i].ID),
						zap.Error(err))
				}
			}
			for i := range value.Statuses {
				if err := s.processStatus(ctx, &value.Statuses[i]); err != nil {
					utils.Zlog.Error("failed to process status update",
						zap.String("provider_message_id", value.Statuses[i].ID),
						zap.Error(err))
				}
			}
		}
	}
}

func (s *Service) processMessage(ctx context.Context, value *Value, msg *Message) error {
	account, err := s.accounts.GetWhatsAppAccountByPhoneNumberID(ctx, value.Metadata.PhoneNumberID)
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			// Inbound events for unknown numbers are dropped.
			utils.Zlog.Warn("dropping message for unknown phone_number_id",
				zap.String("phone_number_id", value.Metadata.PhoneNumberID),
				zap.String("from", msg.From))
			return nil
		}
		return fmt.Errorf("account lookup failed: %w", err)
	}

	profileName := ""
	for _, ct := range value.Contacts {
		if ct.WaID == msg.From {
			profileName = ct.Profile.Name
			break
		}
	}

	contact, err := s.db.UpsertContact(ctx, account.TenantID, msg.From, msg.From, profileName)
	if err != nil {
		return fmt.Errorf("contact upsert failed: %w", err)
	}

	conv, err := s.db.GetOrCreateActiveConversation(ctx, account.TenantID, contact.ID)
	if err != nil {
		return fmt.Errorf("conversation resolution failed: %w", err)
	}

	content := NormalizeContent(msg)

	row := loaders.InboundMessageRow{
		TenantID:          account.TenantID,
		ConversationID:    conv.ID,
		ContactID:         contact.ID,
		Type:              msg.Type,
		Content:           content,
		ProviderMessageID: msg.ID,
	}
	if ref := mediaID(msg); ref != "" {
		row.MediaRef = &ref
	}

	inserted, err := s.db.RecordInboundMessage(ctx, row)
	if err != nil {
		return fmt.Errorf("message insert failed: %w", err)
	}
	if !inserted {
		utils.Zlog.Info("duplicate webhook delivery ignored",
			zap.String("provider_message_id", msg.ID))
		return nil
	}

	gw := s.newGateway(account.PhoneNumberID, account.AccessToken)

	if err := gw.MarkAsRead(ctx, msg.ID); err != nil {
		utils.Zlog.Debug("mark-as-read failed",
			zap.String("provider_message_id", msg.ID),
			zap.Error(err))
	}

	// Any failure in the auto-response block is logged only; the webhook
	// response to Meta already succeeded as far as this message is concerned.
	if err := s.maybeAutoRespond(ctx, gw, account, conv, msg, content); err != nil {
		utils.Zlog.Error("auto-response failed",
			zap.String("tenant_id", account.TenantID),
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
	}
	return nil
}

// maybeAutoRespond generates and sends an AI reply when every gate holds:
// an agent config resolves, auto-respond is enabled, business hours are open,
// the inbound message is non-empty text.
func (s *Service) maybeAutoRespond(ctx context.Context, gw *gateway.Client, account *loaders.WhatsAppAccount, conv *loaders.Conversation, msg *Message, content string) error {
	agentRow, err := s.db.ResolveAgentForPhoneNumber(ctx, account.TenantID, account.PhoneNumberID)
	if err != nil {
		if errors.Is(err, loaders.ErrNotFound) {
			return nil // no agent, AI disabled
		}
		return fmt.Errorf("agent resolution failed: %w", err)
	}

	agentCfg, err := agentRow.ParseConfig()
	if err != nil {
		return err
	}
	if !agentCfg.Response.AutoRespond {
		return nil
	}
	if !s.hours.IsOpen(ctx, account.TenantID, s.cfg.DefaultTimezone) {
		return nil
	}
	if msg.Type != "text" || content == "" {
		return nil
	}

	history, err := s.db.GetConversationHistory(ctx, conv.ID, historyLimit)
	if err != nil {
		utils.Zlog.Debug("failed to load conversation history",
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
		history = nil
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: agent.BuildSystemPrompt(agentCfg)})
	for _, h := range history {
		messages = append(messages, llm.Message{Role: h.Role, Content: h.Content})
	}
	// History already ends with the just-persisted inbound message; append it
	// only if the read raced the insert.
	if len(history) == 0 || history[len(history)-1].Content != content {
		messages = append(messages, llm.Message{Role: "user", Content: content})
	}

	reply, _, err := s.provider.Generate(ctx, messages, llm.ModelConfig{
		Model:       s.cfg.OpenAIModel,
		Temperature: responseTemperature,
		MaxTokens:   responseMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("response generation failed: %w", err)
	}

	sentID, err := gw.SendText(ctx, msg.From, reply, msg.ID)
	if err != nil {
		return fmt.Errorf("failed to send auto-response: %w", err)
	}

	if _, err := s.db.RecordOutboundMessage(ctx, loaders.OutboundMessageRow{
		TenantID:          account.TenantID,
		ConversationID:    conv.ID,
		Type:              "text",
		Content:           reply,
		ProviderMessageID: sentID,
		AIGenerated:       true,
	}); err != nil {
		return fmt.Errorf("failed to persist auto-response: %w", err)
	}

	utils.Zlog.Info("auto-response sent",
		zap.String("tenant_id", account.TenantID),
		zap.String("conversation_id", conv.ID),
		zap.String("sent_msg_id", sentID))
	return nil
}

func (s *Service) processStatus(ctx context.Context, status *Status) error {
	eventTime := time.Now().UTC()
	if secs, err := strconv.ParseInt(status.Timestamp, 10, 64); err == nil {
		eventTime = time.Unix(secs, 0).UTC()
	}
	return s.db.UpdateMessageDeliveryStatus(ctx, status.ID, status.Status, eventTime)
}
