package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AgentConfig is the validated form of the ai_agents.config JSONB column.
// Every section is optional; absent sections behave as zero values.
type AgentConfig struct {
	Profile   ProfileConfig   `json:"profile"`
	Prompt    PromptConfig    `json:"prompt"`
	Knowledge KnowledgeConfig `json:"knowledge"`
	Behavior  BehaviorConfig  `json:"behavior"`
	Response  ResponseConfig  `json:"response"`
}

// ProfileConfig describes the agent's identity and operating window
type ProfileConfig struct {
	Name                string        `json:"name"`
	Industry            string        `json:"industry,omitempty"`
	BusinessDescription string        `json:"businessDescription,omitempty"`
	Tone                string        `json:"tone,omitempty"`
	Language            string        `json:"language,omitempty"`
	BusinessHours       BusinessHours `json:"businessHours"`
}

// BusinessHours is the agent's configured operating window.
// Empty Start or End means the agent is always open.
type BusinessHours struct {
	Timezone string   `json:"timezone,omitempty"`
	Start    string   `json:"start,omitempty"` // "HH:MM"
	End      string   `json:"end,omitempty"`   // "HH:MM"
	WorkDays []string `json:"workDays,omitempty"`
}

// PromptConfig holds the free-form prompt building blocks
type PromptConfig struct {
	Goals              []string `json:"goals,omitempty"`
	Constraints        []string `json:"constraints,omitempty"`
	CustomInstructions string   `json:"customInstructions,omitempty"`
}

// KnowledgeConfig holds the agent's knowledge base
type KnowledgeConfig struct {
	FAQs     []FAQ  `json:"faqs,omitempty"`
	Policies string `json:"policies,omitempty"`
}

// FAQ is a single question/answer pair
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BehaviorConfig holds behavioral toggles
type BehaviorConfig struct {
	CaptureContactInfo bool `json:"captureContactInfo,omitempty"`
}

// ResponseConfig controls the auto-response path
type ResponseConfig struct {
	AutoRespond bool `json:"autoRespond"`
}

// ParseAgentConfig decodes and validates a raw config blob at the read
// boundary. A nil or empty blob yields a zero config with auto-respond off.
func ParseAgentConfig(raw []byte) (*AgentConfig, error) {
	cfg := &AgentConfig{}
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse agent config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that other components rely on.
func (c *AgentConfig) Validate() error {
	bh := c.Profile.BusinessHours
	if (bh.Start == "") != (bh.End == "") {
		return fmt.Errorf("business hours require both start and end (got start=%q end=%q)", bh.Start, bh.End)
	}
	if bh.Start != "" {
		if err := validateClock(bh.Start); err != nil {
			return fmt.Errorf("invalid business hours start: %w", err)
		}
		if err := validateClock(bh.End); err != nil {
			return fmt.Errorf("invalid business hours end: %w", err)
		}
	}
	for _, day := range bh.WorkDays {
		if !validWeekday(day) {
			return fmt.Errorf("invalid work day: %q", day)
		}
	}
	return nil
}

func validateClock(v string) error {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected HH:MM, got %q", v)
	}
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("expected HH:MM, got %q", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("clock value out of range: %q", v)
	}
	return nil
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func validWeekday(day string) bool {
	return weekdays[strings.ToLower(day)]
}
