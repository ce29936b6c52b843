package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/utils"
)

const accountTTL = 60 * time.Second

// NewRedisClient connects to Redis, or returns nil when REDIS_ADDR is unset
// (caching disabled, every lookup goes to Postgres).
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		utils.Zlog.Warn("Redis unavailable, account caching disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// AccountResolver is the read path the cache wraps.
type AccountResolver interface {
	GetWhatsAppAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*loaders.WhatsAppAccount, error)
}

// AccountCache is a read-through cache for the webhook hot path: every inbound
// event resolves its WhatsApp account by phone_number_id. Redis errors fall
// back to the database.
type AccountCache struct {
	rdb *redis.Client
	db  AccountResolver
}

func NewAccountCache(rdb *redis.Client, db AccountResolver) *AccountCache {
	return &AccountCache{rdb: rdb, db: db}
}

// cachedAccount mirrors loaders.WhatsAppAccount including the secret fields
// that its JSON tags hide from API responses.
type cachedAccount struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	PhoneNumber   string    `json:"phone_number"`
	PhoneNumberID string    `json:"phone_number_id"`
	WabaID        string    `json:"waba_id"`
	AccessToken   string    `json:"access_token"`
	VerifyToken   *string   `json:"verify_token"`
	DisplayName   string    `json:"display_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func accountKey(phoneNumberID string) string {
	return "wa:account:" + phoneNumberID
}

func (c *AccountCache) GetWhatsAppAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*loaders.WhatsAppAccount, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, accountKey(phoneNumberID)).Bytes()
		if err == nil {
			var cached cachedAccount
			if err := json.Unmarshal(raw, &cached); err == nil {
				return fromCached(&cached), nil
			}
		} else if err != redis.Nil {
			utils.Zlog.Debug("account cache read failed",
				zap.String("phone_number_id", phoneNumberID),
				zap.Error(err))
		}
	}

	acc, err := c.db.GetWhatsAppAccountByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		raw, err := json.Marshal(toCached(acc))
		if err == nil {
			if err := c.rdb.Set(ctx, accountKey(phoneNumberID), raw, accountTTL).Err(); err != nil {
				utils.Zlog.Debug("account cache write failed",
					zap.String("phone_number_id", phoneNumberID),
					zap.Error(err))
			}
		}
	}
	return acc, nil
}

// Invalidate drops a cached account after an update or delete.
func (c *AccountCache) Invalidate(ctx context.Context, phoneNumberID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, accountKey(phoneNumberID)).Err(); err != nil {
		utils.Zlog.Debug("account cache invalidate failed",
			zap.String("phone_number_id", phoneNumberID),
			zap.Error(err))
	}
}

func toCached(acc *loaders.WhatsAppAccount) *cachedAccount {
	return &cachedAccount{
		ID:            acc.ID,
		TenantID:      acc.TenantID,
		PhoneNumber:   acc.PhoneNumber,
		PhoneNumberID: acc.PhoneNumberID,
		WabaID:        acc.WabaID,
		AccessToken:   acc.AccessToken,
		VerifyToken:   acc.VerifyToken,
		DisplayName:   acc.DisplayName,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

func fromCached(cached *cachedAccount) *loaders.WhatsAppAccount {
	return &loaders.WhatsAppAccount{
		ID:            cached.ID,
		TenantID:      cached.TenantID,
		PhoneNumber:   cached.PhoneNumber,
		PhoneNumberID: cached.PhoneNumberID,
		WabaID:        cached.WabaID,
		AccessToken:   cached.AccessToken,
		VerifyToken:   cached.VerifyToken,
		DisplayName:   cached.DisplayName,
		Status:        cached.Status,
		CreatedAt:     cached.CreatedAt,
		UpdatedAt:     cached.UpdatedAt,
	}
}
