package loaders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Conversation statuses
const (
	ConversationOpen     = "open"
	ConversationPending  = "pending"
	ConversationResolved = "resolved"
	ConversationSpam     = "spam"
)

// Conversation is a thread between one contact and one tenant
type Conversation struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	ContactID     string     `json:"contact_id"`
	Status        string     `json:"status"`
	AssignedTo    *string    `json:"assigned_to"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int        `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const conversationColumns = `id, tenant_id, contact_id, status, assigned_to,
	       last_message, last_message_at, unread_count, created_at, updated_at`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var cv Conversation
	err := row.Scan(
		&cv.ID, &cv.TenantID, &cv.ContactID, &cv.Status, &cv.AssignedTo,
		&cv.LastMessage, &cv.LastMessageAt, &cv.UnreadCount, &cv.CreatedAt, &cv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}
	return &cv, nil
}

// GetOrCreateActiveConversation resolves the single active thread for a
// contact: the most recent conversation whose status is neither resolved nor
// spam. A pending conversation is reopened; if none exists a new open one is
// created. Resolved threads stay closed and a new message starts a new thread.
func (c *PostgresClient) GetOrCreateActiveConversation(ctx context.Context, tenantID, contactID string) (*Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE tenant_id = $1 AND contact_id = $2 AND status NOT IN ($3, $4)
		ORDER BY created_at DESC
		LIMIT 1
	`
	conv, err := scanConversation(c.pool.QueryRow(ctx, query, tenantID, contactID, ConversationResolved, ConversationSpam))
	if err == nil {
		if conv.Status != ConversationOpen {
			return c.reopenConversation(ctx, conv.ID)
		}
		return conv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate conversation id: %w", err)
	}
	insert := `
		INSERT INTO conversations (id, tenant_id, contact_id, status, last_message, unread_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '', 0, NOW(), NOW())
		RETURNING ` + conversationColumns + `
	`
	return scanConversation(c.pool.QueryRow(ctx, insert, id.String(), tenantID, contactID, ConversationOpen))
}

func (c *PostgresClient) reopenConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `
		UPDATE conversations
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + conversationColumns + `
	`
	return scanConversation(c.pool.QueryRow(ctx, query, id, ConversationOpen))
}

func (c *PostgresClient) GetConversation(ctx context.Context, tenantID, id string) (*Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = $1 AND tenant_id = $2
	`
	return scanConversation(c.pool.QueryRow(ctx, query, id, tenantID))
}

// ListConversations returns conversations for a tenant, newest activity first,
// optionally filtered by status.
func (c *PostgresClient) ListConversations(ctx context.Context, tenantID, status string, limit, offset int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := c.pool.Query(ctx, query, tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		cv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, *cv)
	}
	return conversations, rows.Err()
}

func (c *PostgresClient) UpdateConversation(ctx context.Context, tenantID, id string, status, assignedTo *string) (*Conversation, error) {
	if status != nil {
		switch *status {
		case ConversationOpen, ConversationPending, ConversationResolved, ConversationSpam:
		default:
			return nil, fmt.Errorf("invalid conversation status: %s", *status)
		}
	}
	query := `
		UPDATE conversations
		SET status = COALESCE($3, status),
		    assigned_to = COALESCE($4, assigned_to),
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING ` + conversationColumns + `
	`
	return scanConversation(c.pool.QueryRow(ctx, query, id, tenantID, status, assignedTo))
}

// MarkConversationRead resets the unread counter when an agent opens a thread.
func (c *PostgresClient) MarkConversationRead(ctx context.Context, tenantID, id string) error {
	tag, err := c.pool.Exec(ctx, `
		UPDATE conversations SET unread_count = 0, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
