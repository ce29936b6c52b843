package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/loaders"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/types"
	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/utils"
)

// DefaultAgentStore loads the tenant's default agent configuration.
type DefaultAgentStore interface {
	GetDefaultAgent(ctx context.Context, tenantID string) (*loaders.AIAgent, error)
}

// HoursEvaluator answers whether "now" is inside a tenant's operating window.
type HoursEvaluator struct {
	db  DefaultAgentStore
	now func() time.Time
}

func NewHoursEvaluator(db DefaultAgentStore) *HoursEvaluator {
	return &HoursEvaluator{db: db, now: time.Now}
}

// IsOpen resolves the tenant's default agent and evaluates its business-hours
// window. No default agent, unset boundaries, or any evaluation error all
// yield true: the window fails open so a transient error never silently stops
// every auto-reply.
func (h *HoursEvaluator) IsOpen(ctx context.Context, tenantID, fallbackTimezone string) bool {
	agent, err := h.db.GetDefaultAgent(ctx, tenantID)
	if err != nil {
		return true
	}

	cfg, err := types.ParseAgentConfig(agent.Config)
	if err != nil {
		utils.Zlog.Warn("unparseable agent config, treating business hours as open",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return true
	}

	return WithinBusinessHours(cfg.Profile.BusinessHours, h.now(), fallbackTimezone)
}

// WithinBusinessHours evaluates a configured window against now. Boundaries
// are inclusive on both ends; an empty work-days list means every day counts.
func WithinBusinessHours(bh types.BusinessHours, now time.Time, fallbackTimezone string) bool {
	if bh.Start == "" || bh.End == "" {
		return true
	}

	tz := bh.Timezone
	if tz == "" {
		tz = fallbackTimezone
	}
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			// fail open
			return true
		}
		now = now.In(loc)
	}

	startMin, err := parseClock(bh.Start)
	if err != nil {
		return true
	}
	endMin, err := parseClock(bh.End)
	if err != nil {
		return true
	}

	nowMin := now.Hour()*60 + now.Minute()
	if nowMin < startMin || nowMin > endMin {
		return false
	}

	if len(bh.WorkDays) == 0 {
		return true
	}
	today := strings.ToLower(now.Weekday().String())
	for _, day := range bh.WorkDays {
		if strings.ToLower(day) == today {
			return true
		}
	}
	return false
}

func parseClock(v string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", v, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value out of range: %q", v)
	}
	return h*60 + m, nil
}
