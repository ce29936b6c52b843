package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/gateway"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/llm"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
)

type statusCall struct {
	providerMessageID string
	status            string
	eventTime         time.Time
}

type fakeStore struct {
	mu sync.Mutex

	agent       *loaders.AIAgent
	history     []loaders.HistoryEntry
	insertedDup bool // when true, RecordInboundMessage reports a duplicate

	upserts      int
	convLookups  int
	inboundRows  []loaders.InboundMessageRow
	outboundRows []loaders.OutboundMessageRow
	statusCalls  []statusCall
}

func (f *fakeStore) UpsertContact(_ context.Context, tenantID, phoneNumber, waID, displayName string) (*loaders.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	return &loaders.Contact{ID: "contact-1", TenantID: tenantID, PhoneNumber: phoneNumber, WaID: waID, DisplayName: displayName}, nil
}

func (f *fakeStore) GetOrCreateActiveConversation(_ context.Context, tenantID, contactID string) (*loaders.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convLookups++
	return &loaders.Conversation{ID: "conv-1", TenantID: tenantID, ContactID: contactID, Status: loaders.ConversationOpen}, nil
}

func (f *fakeStore) RecordInboundMessage(_ context.Context, row loaders.InboundMessageRow) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inboundRows = append(f.inboundRows, row)
	return !f.insertedDup, nil
}

func (f *fakeStore) RecordOutboundMessage(_ context.Context, row loaders.OutboundMessageRow) (*loaders.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outboundRows = append(f.outboundRows, row)
	return &loaders.Message{ID: "msg-out-1", Direction: loaders.DirectionOutbound}, nil
}

func (f *fakeStore) GetConversationHistory(_ context.Context, _ string, _ int) ([]loaders.HistoryEntry, error) {
	return f.history, nil
}

func (f *fakeStore) UpdateMessageDeliveryStatus(_ context.Context, providerMessageID, status string, eventTime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{providerMessageID, status, eventTime})
	return nil
}

func (f *fakeStore) ResolveAgentForPhoneNumber(_ context.Context, _, _ string) (*loaders.AIAgent, error) {
	if f.agent == nil {
		return nil, loaders.ErrNotFound
	}
	return f.agent, nil
}

func (f *fakeStore) GetDefaultAgent(_ context.Context, _ string) (*loaders.AIAgent, error) {
	if f.agent == nil {
		return nil, loaders.ErrNotFound
	}
	return f.agent, nil
}

type fakeAccounts struct {
	account *loaders.WhatsAppAccount
}

func (f *fakeAccounts) GetWhatsAppAccountByPhoneNumberID(_ context.Context, phoneNumberID string) (*loaders.WhatsAppAccount, error) {
	if f.account == nil || f.account.PhoneNumberID != phoneNumberID {
		return nil, loaders.ErrNotFound
	}
	return f.account, nil
}

type fakeProvider struct {
	mu    sync.Mutex
	calls [][]llm.Message
	reply string
}

func (f *fakeProvider) Generate(_ context.Context, messages []llm.Message, _ llm.ModelConfig) (string, llm.Usage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	return f.reply, llm.Usage{TotalTokens: 5}, nil
}

// graphStub records every Cloud API request the pipeline makes.
type graphStub struct {
	mu     sync.Mutex
	bodies []map[string]interface{}
}

func (g *graphStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.mu.Lock()
		g.bodies = append(g.bodies, body)
		g.mu.Unlock()
		w.Write([]byte(`{"messages":[{"id":"wamid.AUTOREPLY"}]}`))
	}
}

func (g *graphStub) textSends() []map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sends []map[string]interface{}
	for _, b := range g.bodies {
		if b["type"] == "text" {
			sends = append(sends, b)
		}
	}
	return sends
}

func (g *graphStub) readReceipts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, b := range g.bodies {
		if b["status"] == "read" {
			n++
		}
	}
	return n
}

func autoRespondAgent(extra string) *loaders.AIAgent {
	cfg := `{"profile":{"name":"Maya"},"response":{"autoRespond":true}` + extra + `}`
	return &loaders.AIAgent{ID: "agent-1", TenantID: "tenant-1", Name: "Maya", Config: json.RawMessage(cfg)}
}

func newPipeline(t *testing.T, store *fakeStore) (*Service, *fakeProvider, *graphStub) {
	t.Helper()
	stub := &graphStub{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	provider := &fakeProvider{reply: "Happy to help!"}
	accounts := &fakeAccounts{account: &loaders.WhatsAppAccount{
		ID: "acc-1", TenantID: "tenant-1", PhoneNumberID: "555001", AccessToken: "tok",
	}}
	cfg := &config.Config{OpenAIModel: "gpt-4o-mini", DefaultTimezone: "UTC"}

	svc := NewService(store, accounts, cfg, provider, WithGatewayFactory(func(phoneNumberID, accessToken string) *gateway.Client {
		return gateway.NewClient(phoneNumberID, accessToken, gateway.WithBaseURL(srv.URL))
	}))
	return svc, provider, stub
}

func textPayload(body string) *WebhookPayload {
	return &WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []Entry{{
			ID: "waba-1",
			Changes: []Change{{
				Field: "messages",
				Value: Value{
					Metadata: Metadata{PhoneNumberID: "555001"},
					Contacts: []Contact{{WaID: "5511999990000", Profile: Profile{Name: "Alice"}}},
					Messages: []Message{{
						From:      "5511999990000",
						ID:        "wamid.IN1",
						Timestamp: "1724900000",
						Type:      "text",
						Text:      &TextMessage{Body: body},
					}},
				},
			}},
		}},
	}
}

func TestProcessPayloadFirstInbound(t *testing.T) {
	store := &fakeStore{agent: autoRespondAgent("")}
	svc, provider, stub := newPipeline(t, store)

	svc.ProcessPayload(context.Background(), textPayload("what are your hours?"))

	assert.Equal(t, 1, store.upserts)
	assert.Equal(t, 1, store.convLookups)

	require.Len(t, store.inboundRows, 1)
	in := store.inboundRows[0]
	assert.Equal(t, "tenant-1", in.TenantID)
	assert.Equal(t, "conv-1", in.ConversationID)
	assert.Equal(t, "text", in.Type)
	assert.Equal(t, "what are your hours?", in.Content)
	assert.Equal(t, "wamid.IN1", in.ProviderMessageID)

	assert.Equal(t, 1, stub.readReceipts())

	sends := stub.textSends()
	require.Len(t, sends, 1)
	assert.Equal(t, "5511999990000", sends[0]["to"])

	require.Len(t, store.outboundRows, 1)
	out := store.outboundRows[0]
	assert.True(t, out.AIGenerated)
	assert.Equal(t, "Happy to help!", out.Content)
	assert.Equal(t, "wamid.AUTOREPLY", out.ProviderMessageID)

	require.Len(t, provider.calls, 1)
	msgs := provider.calls[0]
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Maya")
	assert.Equal(t, "what are your hours?", msgs[len(msgs)-1].Content)
}

func TestProcessPayloadDuplicateDelivery(t *testing.T) {
	store := &fakeStore{agent: autoRespondAgent(""), insertedDup: true}
	svc, provider, stub := newPipeline(t, store)

	svc.ProcessPayload(context.Background(), textPayload("hello again"))

	require.Len(t, store.inboundRows, 1)
	assert.Empty(t, provider.calls)
	assert.Empty(t, store.outboundRows)
	assert.Empty(t, stub.bodies) // no read receipt, no send
}

func TestProcessPayloadAutoRespondDisabled(t *testing.T) {
	store := &fakeStore{agent: &loaders.AIAgent{
		ID: "agent-1", TenantID: "tenant-1",
		Config: json.RawMessage(`{"response":{"autoRespond":false}}`),
	}}
	svc, provider, _ := newPipeline(t, store)

	svc.ProcessPayload(context.Background(), textPayload("hi"))

	require.Len(t, store.inboundRows, 1)
	assert.Empty(t, provider.calls)
	assert.Empty(t, store.outboundRows)
}

func TestProcessPayloadNoAgent(t *testing.T) {
	store := &fakeStore{}
	svc, provider, _ := newPipeline(t, store)

	svc.ProcessPayload(context.Background(), textPayload("hi"))

	require.Len(t, store.inboundRows, 1)
	assert.Empty(t, provider.calls)
	assert.Empty(t, store.outboundRows)
}

func TestProcessPayloadOutsideBusinessHours(t *testing.T) {
	// A work-day list that excludes the current UTC weekday closes the window.
	today := strings.ToLower(time.Now().UTC().Weekday().String())
	otherDay := "monday"
	if today == "monday" {
		otherDay = "tuesday"
	}
	extra := fmt.Sprintf(`,"profile":{"businessHours":{"timezone":"UTC","start":"00:00","end":"23:59","workDays":[%q]}}`, otherDay)
	store := &fakeStore{agent: &loaders.AIAgent{
		ID: "agent-1", TenantID: "tenant-1",
		Config: json.RawMessage(`{"response":{"autoRespond":true}` + extra + `}`),
	}}
	svc, provider, _ := newPipeline(t, store)

	svc.ProcessPayload(context.Background(), textPayload("hi"))

	require.Len(t, store.inboundRows, 1)
	assert.Empty(t, provider.calls)
	assert.Empty(t, store.outboundRows)
}

func TestProcessPayloadNonTextSkipsAutoReply(t *testing.T) {
	store := &fakeStore{agent: autoRespondAgent("")}
	svc, provider, _ := newPipeline(t, store)

	payload := textPayload("")
	payload.Entry[0].Changes[0].Value.Messages[0] = Message{
		From: "5511999990000",
		ID:   "wamid.IMG1",
		Type: "image",
		Image: &MediaInfo{
			ID: "media-1",
		},
	}
	svc.ProcessPayload(context.Background(), payload)

	require.Len(t, store.inboundRows, 1)
	in := store.inboundRows[0]
	assert.Equal(t, "image", in.Type)
	assert.Equal(t, "[Image]", in.Content)
	require.NotNil(t, in.MediaRef)
	assert.Equal(t, "media-1", *in.MediaRef)

	assert.Empty(t, provider.calls)
	assert.Empty(t, store.outboundRows)
}

func TestProcessPayloadUnknownPhoneNumberDropped(t *testing.T) {
	store := &fakeStore{agent: autoRespondAgent("")}
	svc, provider, stub := newPipeline(t, store)

	payload := textPayload("hi")
	payload.Entry[0].Changes[0].Value.Metadata.PhoneNumberID = "999999"
	svc.ProcessPayload(context.Background(), payload)

	assert.Zero(t, store.upserts)
	assert.Empty(t, store.inboundRows)
	assert.Empty(t, provider.calls)
	assert.Empty(t, stub.bodies)
}

func TestProcessPayloadHistoryNotDuplicated(t *testing.T) {
	store := &fakeStore{
		agent: autoRespondAgent(""),
		history: []loaders.HistoryEntry{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
			{Role: "user", Content: "what are your hours?"},
		},
	}
	svc, provider, _ := newPipeline(t, store)

	svc.ProcessPayload(context.Background(), textPayload("what are your hours?"))

	require.Len(t, provider.calls, 1)
	msgs := provider.calls[0]
	// system + 3 history turns; the inbound message already closes the history
	require.Len(t, msgs, 4)
	assert.Equal(t, "what are your hours?", msgs[3].Content)
	assert.Equal(t, "earlier answer", msgs[2].Content)
}

func TestProcessPayloadStatusUpdate(t *testing.T) {
	store := &fakeStore{}
	svc, _, _ := newPipeline(t, store)

	payload := &WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []Entry{{
			Changes: []Change{{
				Value: Value{
					Metadata: Metadata{PhoneNumberID: "555001"},
					Statuses: []Status{{
						ID:        "wamid.OUT1",
						Status:    "read",
						Timestamp: "1724900000",
					}},
				},
			}},
		}},
	}
	svc.ProcessPayload(context.Background(), payload)

	require.Len(t, store.statusCalls, 1)
	call := store.statusCalls[0]
	assert.Equal(t, "wamid.OUT1", call.providerMessageID)
	assert.Equal(t, "read", call.status)
	assert.Equal(t, time.Unix(1724900000, 0).UTC(), call.eventTime)
}
