package loaders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Message directions and delivery statuses
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"

	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Message is an immutable record of one inbound or outbound unit. Only the
// delivery status fields change after insert.
type Message struct {
	ID                string     `json:"id"`
	TenantID          string     `json:"tenant_id"`
	ConversationID    string     `json:"conversation_id"`
	Direction         string     `json:"direction"` // inbound | outbound
	Type              string     `json:"type"`
	Content           string     `json:"content"`
	MediaRef          *string    `json:"media_ref"`
	Status            string     `json:"status"`
	ProviderMessageID *string    `json:"provider_message_id"`
	AIGenerated       bool       `json:"ai_generated"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	ReadAt            *time.Time `json:"read_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

const messageColumns = `id, tenant_id, conversation_id, direction, "type", content, media_ref,
	       status, provider_message_id, ai_generated, delivered_at, read_at, created_at, updated_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(
		&m.ID, &m.TenantID, &m.ConversationID, &m.Direction, &m.Type, &m.Content, &m.MediaRef,
		&m.Status, &m.ProviderMessageID, &m.AIGenerated, &m.DeliveredAt, &m.ReadAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &m, nil
}

// InboundMessageRow carries everything needed to persist one inbound message.
type InboundMessageRow struct {
	TenantID          string
	ConversationID    string
	ContactID         string
	Type              string
	Content           string
	MediaRef          *string
	ProviderMessageID string
}

// The uniqueness index on provider_message_id is partial (NULL ids are
// allowed to repeat), so the conflict target must restate the index predicate
// for Postgres to accept it as the arbiter.
const insertInboundSQL = `
	INSERT INTO messages (
		id, tenant_id, conversation_id, direction, "type", content, media_ref,
		status, provider_message_id, ai_generated, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, NOW(), NOW())
	ON CONFLICT (provider_message_id) WHERE provider_message_id IS NOT NULL DO NOTHING
`

// RecordInboundMessage persists an inbound message and its denormalized side
// effects in one transaction: message insert, conversation last-message
// snapshot and unread counter, contact last-contacted timestamp.
//
// The insert is keyed on provider_message_id; a redelivered webhook event is a
// no-op and returns inserted=false so the caller can skip the auto-reply.
func (c *PostgresClient) RecordInboundMessage(ctx context.Context, row InboundMessageRow) (inserted bool, err error) {
	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("failed to generate message id: %w", err)
	}

	err = c.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertInboundSQL, id.String(), row.TenantID, row.ConversationID, DirectionInbound, row.Type,
			row.Content, row.MediaRef, StatusDelivered, row.ProviderMessageID)
		if err != nil {
			return fmt.Errorf("failed to insert inbound message: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// duplicate delivery
			return nil
		}
		inserted = true

		if _, err := tx.Exec(ctx, `
			UPDATE conversations
			SET last_message = $2, last_message_at = NOW(),
			    unread_count = unread_count + 1, updated_at = NOW()
			WHERE id = $1
		`, row.ConversationID, row.Content); err != nil {
			return fmt.Errorf("failed to update conversation snapshot: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE contacts SET last_contacted_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, row.ContactID); err != nil {
			return fmt.Errorf("failed to touch contact: %w", err)
		}
		return nil
	})
	return inserted, err
}

// OutboundMessageRow carries everything needed to persist one outbound message.
type OutboundMessageRow struct {
	TenantID          string
	ConversationID    string
	Type              string
	Content           string
	ProviderMessageID string
	AIGenerated       bool
}

// RecordOutboundMessage persists an outbound message and the conversation
// last-message snapshot in one transaction. Outbound sends never touch the
// unread counter.
func (c *PostgresClient) RecordOutboundMessage(ctx context.Context, row OutboundMessageRow) (*Message, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	var msg *Message
	err = c.withTx(ctx, func(tx pgx.Tx) error {
		msg, err = scanMessage(tx.QueryRow(ctx, `
			INSERT INTO messages (
				id, tenant_id, conversation_id, direction, "type", content, media_ref,
				status, provider_message_id, ai_generated, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $8, $9, NOW(), NOW())
			RETURNING `+messageColumns+`
		`, id.String(), row.TenantID, row.ConversationID, DirectionOutbound, row.Type,
			row.Content, StatusSent, row.ProviderMessageID, row.AIGenerated))
		if err != nil {
			return fmt.Errorf("failed to insert outbound message: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE conversations
			SET last_message = $2, last_message_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, row.ConversationID, row.Content); err != nil {
			return fmt.Errorf("failed to update conversation snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// HistoryEntry is one turn of bounded conversation history, oldest first.
type HistoryEntry struct {
	Role    string // user | assistant
	Content string
}

// GetConversationHistory returns the most recent messages of a conversation in
// chronological order, with direction mapped to chat roles.
func (c *PostgresClient) GetConversationHistory(ctx context.Context, conversationID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT direction, content
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := c.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var direction, content string
		if err := rows.Scan(&direction, &content); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		role := "user"
		if direction == DirectionOutbound {
			role = "assistant"
		}
		entries = append(entries, HistoryEntry{Role: role, Content: content})
	}

	// Reverse to get chronological order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, rows.Err()
}

// ListMessages returns the messages of a conversation, oldest first.
func (c *PostgresClient) ListMessages(ctx context.Context, tenantID, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE tenant_id = $1 AND conversation_id = $2
		ORDER BY created_at ASC
		LIMIT $3
	`
	rows, err := c.pool.Query(ctx, query, tenantID, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// UpdateMessageDeliveryStatus applies a delivery-status webhook event by
// provider message id. "delivered" and "read" also stamp their timestamp
// columns; other statuses only touch the status field. An unknown provider id
// is a silent no-op.
func (c *PostgresClient) UpdateMessageDeliveryStatus(ctx context.Context, providerMessageID, status string, eventTime time.Time) error {
	var (
		query string
		args  []any
	)
	switch status {
	case StatusDelivered:
		query = `
			UPDATE messages SET status = $2, delivered_at = $3, updated_at = NOW()
			WHERE provider_message_id = $1
		`
		args = []any{providerMessageID, status, eventTime}
	case StatusRead:
		query = `
			UPDATE messages SET status = $2, read_at = $3, updated_at = NOW()
			WHERE provider_message_id = $1
		`
		args = []any{providerMessageID, status, eventTime}
	default:
		query = `
			UPDATE messages SET status = $2, updated_at = NOW()
			WHERE provider_message_id = $1
		`
		args = []any{providerMessageID, status}
	}

	if _, err := c.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}
	return nil
}
