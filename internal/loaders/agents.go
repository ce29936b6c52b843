package loaders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/types"
)

// AIAgent is a tenant-owned agent configuration row. Config is the raw JSONB
// blob; callers parse it with types.ParseAgentConfig at the read boundary.
type AIAgent struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Name          string          `json:"name"`
	PhoneNumberID *string         `json:"phone_number_id"`
	IsDefault     bool            `json:"is_default"`
	Config        json.RawMessage `json:"config"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ParseConfig decodes and validates the raw config blob.
func (a *AIAgent) ParseConfig() (*types.AgentConfig, error) {
	return types.ParseAgentConfig(a.Config)
}

const agentColumns = `id, tenant_id, name, phone_number_id, is_default, config, created_at, updated_at`

func scanAgent(row pgx.Row) (*AIAgent, error) {
	var a AIAgent
	err := row.Scan(
		&a.ID, &a.TenantID, &a.Name, &a.PhoneNumberID, &a.IsDefault, &a.Config,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ai agent: %w", err)
	}
	return &a, nil
}

// ResolveAgentForPhoneNumber picks the agent for an inbound phone number:
// the agent bound to that phone_number_id, else the tenant's default agent,
// else ErrNotFound (AI disabled).
func (c *PostgresClient) ResolveAgentForPhoneNumber(ctx context.Context, tenantID, phoneNumberID string) (*AIAgent, error) {
	query := `
		SELECT ` + agentColumns + `
		FROM ai_agents
		WHERE tenant_id = $1 AND phone_number_id = $2
		LIMIT 1
	`
	agent, err := scanAgent(c.pool.QueryRow(ctx, query, tenantID, phoneNumberID))
	if err == nil {
		return agent, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return c.GetDefaultAgent(ctx, tenantID)
}

// GetDefaultAgent returns the tenant's default agent, if one is flagged.
func (c *PostgresClient) GetDefaultAgent(ctx context.Context, tenantID string) (*AIAgent, error) {
	query := `
		SELECT ` + agentColumns + `
		FROM ai_agents
		WHERE tenant_id = $1 AND is_default = true
		LIMIT 1
	`
	return scanAgent(c.pool.QueryRow(ctx, query, tenantID))
}

func (c *PostgresClient) GetAgent(ctx context.Context, tenantID, id string) (*AIAgent, error) {
	query := `
		SELECT ` + agentColumns + `
		FROM ai_agents
		WHERE id = $1 AND tenant_id = $2
	`
	return scanAgent(c.pool.QueryRow(ctx, query, id, tenantID))
}

func (c *PostgresClient) ListAgents(ctx context.Context, tenantID string) ([]AIAgent, error) {
	query := `
		SELECT ` + agentColumns + `
		FROM ai_agents
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := c.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai agents: %w", err)
	}
	defer rows.Close()

	var agents []AIAgent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *a)
	}
	return agents, rows.Err()
}

func (c *PostgresClient) CreateAgent(ctx context.Context, a *AIAgent) (*AIAgent, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate agent id: %w", err)
	}
	config := a.Config
	if len(config) == 0 {
		config = []byte("{}")
	}
	query := `
		INSERT INTO ai_agents (id, tenant_id, name, phone_number_id, is_default, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, NOW(), NOW())
		RETURNING ` + agentColumns + `
	`
	return scanAgent(c.pool.QueryRow(ctx, query, id.String(), a.TenantID, a.Name, a.PhoneNumberID, config))
}

func (c *PostgresClient) UpdateAgent(ctx context.Context, tenantID, id string, name *string, phoneNumberID *string, config []byte) (*AIAgent, error) {
	query := `
		UPDATE ai_agents
		SET name = COALESCE($3, name),
		    phone_number_id = COALESCE($4, phone_number_id),
		    config = COALESCE($5, config),
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING ` + agentColumns + `
	`
	return scanAgent(c.pool.QueryRow(ctx, query, id, tenantID, name, phoneNumberID, config))
}

// SetDefaultAgent flags exactly one agent as the tenant default. The unset and
// set run in one transaction so the single-default invariant always holds.
func (c *PostgresClient) SetDefaultAgent(ctx context.Context, tenantID, id string) error {
	return c.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE ai_agents SET is_default = false, updated_at = NOW()
			WHERE tenant_id = $1 AND is_default = true
		`, tenantID); err != nil {
			return fmt.Errorf("failed to clear default agent: %w", err)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE ai_agents SET is_default = true, updated_at = NOW()
			WHERE id = $1 AND tenant_id = $2
		`, id, tenantID)
		if err != nil {
			return fmt.Errorf("failed to set default agent: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (c *PostgresClient) DeleteAgent(ctx context.Context, tenantID, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM ai_agents WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete ai agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
