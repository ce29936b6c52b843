package loaders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WhatsAppAccount represents a row from whatsapp_accounts
type WhatsAppAccount struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	PhoneNumber   string    `json:"phone_number"`
	PhoneNumberID string    `json:"phone_number_id"`
	WabaID        string    `json:"waba_id"`
	AccessToken   string    `json:"-"`
	VerifyToken   *string   `json:"-"`
	DisplayName   string    `json:"display_name"`
	Status        string    `json:"status"` // active | inactive
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const accountColumns = `id, tenant_id, phone_number, phone_number_id, waba_id,
	       access_token, verify_token, display_name, status, created_at, updated_at`

func scanAccount(row pgx.Row) (*WhatsAppAccount, error) {
	var acc WhatsAppAccount
	err := row.Scan(
		&acc.ID, &acc.TenantID, &acc.PhoneNumber, &acc.PhoneNumberID, &acc.WabaID,
		&acc.AccessToken, &acc.VerifyToken, &acc.DisplayName, &acc.Status,
		&acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan whatsapp account: %w", err)
	}
	return &acc, nil
}

// GetWhatsAppAccountByPhoneNumberID resolves inbound traffic to a tenant.
// phone_number_id is unique across all tenants (enforced by constraint).
func (c *PostgresClient) GetWhatsAppAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*WhatsAppAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM whatsapp_accounts
		WHERE phone_number_id = $1
		LIMIT 1
	`
	return scanAccount(c.pool.QueryRow(ctx, query, phoneNumberID))
}

func (c *PostgresClient) GetWhatsAppAccount(ctx context.Context, tenantID, id string) (*WhatsAppAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM whatsapp_accounts
		WHERE id = $1 AND tenant_id = $2
	`
	return scanAccount(c.pool.QueryRow(ctx, query, id, tenantID))
}

// GetActiveWhatsAppAccountByTenant returns the tenant's active account used
// for outbound sends initiated from the dashboard.
func (c *PostgresClient) GetActiveWhatsAppAccountByTenant(ctx context.Context, tenantID string) (*WhatsAppAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM whatsapp_accounts
		WHERE tenant_id = $1 AND status = 'active'
		ORDER BY created_at ASC
		LIMIT 1
	`
	return scanAccount(c.pool.QueryRow(ctx, query, tenantID))
}

func (c *PostgresClient) ListWhatsAppAccounts(ctx context.Context, tenantID string) ([]WhatsAppAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM whatsapp_accounts
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := c.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query whatsapp accounts: %w", err)
	}
	defer rows.Close()

	var accounts []WhatsAppAccount
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// CreateWhatsAppAccount inserts a new account. A duplicate phone_number_id
// violates the unique constraint and surfaces as an error.
func (c *PostgresClient) CreateWhatsAppAccount(ctx context.Context, acc *WhatsAppAccount) (*WhatsAppAccount, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}

	query := `
		INSERT INTO whatsapp_accounts (
			id, tenant_id, phone_number, phone_number_id, waba_id,
			access_token, verify_token, display_name, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + accountColumns + `
	`
	status := acc.Status
	if status == "" {
		status = "active"
	}
	return scanAccount(c.pool.QueryRow(ctx, query,
		id.String(), acc.TenantID, acc.PhoneNumber, acc.PhoneNumberID, acc.WabaID,
		acc.AccessToken, acc.VerifyToken, acc.DisplayName, status,
	))
}

func (c *PostgresClient) UpdateWhatsAppAccount(ctx context.Context, tenantID, id string, displayName, status *string) (*WhatsAppAccount, error) {
	query := `
		UPDATE whatsapp_accounts
		SET display_name = COALESCE($3, display_name),
		    status = COALESCE($4, status),
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING ` + accountColumns + `
	`
	return scanAccount(c.pool.QueryRow(ctx, query, id, tenantID, displayName, status))
}

func (c *PostgresClient) DeleteWhatsAppAccount(ctx context.Context, tenantID, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM whatsapp_accounts WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete whatsapp account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
