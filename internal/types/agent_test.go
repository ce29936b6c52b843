package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgentConfigEmpty(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("null")} {
		cfg, err := ParseAgentConfig(raw)
		require.NoError(t, err)
		assert.False(t, cfg.Response.AutoRespond)
		assert.Empty(t, cfg.Profile.Name)
	}
}

func TestParseAgentConfigFull(t *testing.T) {
	raw := []byte(`{
		"profile": {
			"name": "Maya",
			"tone": "friendly",
			"businessHours": {
				"timezone": "America/Sao_Paulo",
				"start": "08:00",
				"end": "18:30",
				"workDays": ["Monday", "tuesday", "WEDNESDAY"]
			}
		},
		"knowledge": {"faqs": [{"question": "Hours?", "answer": "8 to 6"}]},
		"response": {"autoRespond": true}
	}`)

	cfg, err := ParseAgentConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, "Maya", cfg.Profile.Name)
	assert.Equal(t, "08:00", cfg.Profile.BusinessHours.Start)
	assert.Len(t, cfg.Knowledge.FAQs, 1)
	assert.True(t, cfg.Response.AutoRespond)
}

func TestParseAgentConfigMalformed(t *testing.T) {
	_, err := ParseAgentConfig([]byte(`{"profile": `))
	assert.Error(t, err)
}

func TestAgentConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		hours   BusinessHours
		wantErr string
	}{
		{name: "no window", hours: BusinessHours{}},
		{name: "full window", hours: BusinessHours{Start: "09:00", End: "17:00"}},
		{
			name:    "start without end",
			hours:   BusinessHours{Start: "09:00"},
			wantErr: "both start and end",
		},
		{
			name:    "bad clock format",
			hours:   BusinessHours{Start: "9am", End: "17:00"},
			wantErr: "invalid business hours start",
		},
		{
			name:    "out of range",
			hours:   BusinessHours{Start: "09:00", End: "25:00"},
			wantErr: "invalid business hours end",
		},
		{
			name:    "bad work day",
			hours:   BusinessHours{WorkDays: []string{"funday"}},
			wantErr: "invalid work day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AgentConfig{Profile: ProfileConfig{BusinessHours: tt.hours}}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
