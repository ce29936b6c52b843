package loaders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Contact represents a WhatsApp end-user known to a tenant
type Contact struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	PhoneNumber     string     `json:"phone_number"`
	WaID            string     `json:"wa_id"`
	DisplayName     string     `json:"display_name"`
	OptedIn         bool       `json:"opted_in"`
	Tags            []string   `json:"tags"`
	LastContactedAt *time.Time `json:"last_contacted_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

const contactColumns = `id, tenant_id, phone_number, wa_id, display_name, opted_in,
	       tags, last_contacted_at, created_at, updated_at`

func scanContact(row pgx.Row) (*Contact, error) {
	var ct Contact
	err := row.Scan(
		&ct.ID, &ct.TenantID, &ct.PhoneNumber, &ct.WaID, &ct.DisplayName, &ct.OptedIn,
		&ct.Tags, &ct.LastContactedAt, &ct.CreatedAt, &ct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return &ct, nil
}

// UpsertContact creates a contact on first inbound message or reuses the
// existing row, keyed on (tenant_id, phone_number). An empty profile name
// never clobbers a previously stored display name.
func (c *PostgresClient) UpsertContact(ctx context.Context, tenantID, phoneNumber, waID, displayName string) (*Contact, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contact id: %w", err)
	}

	query := `
		INSERT INTO contacts (id, tenant_id, phone_number, wa_id, display_name, opted_in, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, '{}', NOW(), NOW())
		ON CONFLICT (tenant_id, phone_number)
		DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), contacts.display_name),
			wa_id = COALESCE(NULLIF(EXCLUDED.wa_id, ''), contacts.wa_id),
			updated_at = NOW()
		RETURNING ` + contactColumns + `
	`
	return scanContact(c.pool.QueryRow(ctx, query, id.String(), tenantID, phoneNumber, waID, displayName))
}

func (c *PostgresClient) GetContact(ctx context.Context, tenantID, id string) (*Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND tenant_id = $2
	`
	return scanContact(c.pool.QueryRow(ctx, query, id, tenantID))
}

// ListContacts returns a page of contacts, optionally filtered by a
// case-insensitive match on phone number or display name.
func (c *PostgresClient) ListContacts(ctx context.Context, tenantID, search string, limit, offset int) ([]Contact, int64, error) {
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + search + "%"

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM contacts
		WHERE tenant_id = $1 AND ($2 = '%%' OR phone_number ILIKE $2 OR display_name ILIKE $2)
	`
	if err := c.pool.QueryRow(ctx, countQuery, tenantID, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE tenant_id = $1 AND ($2 = '%%' OR phone_number ILIKE $2 OR display_name ILIKE $2)
		ORDER BY last_contacted_at DESC NULLS LAST, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := c.pool.Query(ctx, query, tenantID, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		ct, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, *ct)
	}
	return contacts, total, rows.Err()
}

func (c *PostgresClient) CreateContact(ctx context.Context, ct *Contact) (*Contact, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contact id: %w", err)
	}
	tags := ct.Tags
	if tags == nil {
		tags = []string{}
	}
	query := `
		INSERT INTO contacts (id, tenant_id, phone_number, wa_id, display_name, opted_in, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + contactColumns + `
	`
	return scanContact(c.pool.QueryRow(ctx, query,
		id.String(), ct.TenantID, ct.PhoneNumber, ct.WaID, ct.DisplayName, ct.OptedIn, tags,
	))
}

func (c *PostgresClient) UpdateContact(ctx context.Context, tenantID, id string, displayName *string, optedIn *bool, tags []string) (*Contact, error) {
	query := `
		UPDATE contacts
		SET display_name = COALESCE($3, display_name),
		    opted_in = COALESCE($4, opted_in),
		    tags = COALESCE($5, tags),
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING ` + contactColumns + `
	`
	return scanContact(c.pool.QueryRow(ctx, query, id, tenantID, displayName, optedIn, tags))
}

func (c *PostgresClient) DeleteContact(ctx context.Context, tenantID, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
