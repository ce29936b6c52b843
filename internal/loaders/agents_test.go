package loaders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The config column is JSONB; API responses must carry it as a JSON object,
// not a base64 blob.
func TestAIAgentConfigMarshalsAsObject(t *testing.T) {
	a := AIAgent{
		ID:        "a1",
		TenantID:  "t1",
		Name:      "Support",
		Config:    json.RawMessage(`{"response":{"autoRespond":true}}`),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"config":{"response":{"autoRespond":true}}`)
}

func TestAIAgentParseConfig(t *testing.T) {
	a := AIAgent{Config: json.RawMessage(`{"response":{"autoRespond":true}}`)}
	cfg, err := a.ParseConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Response.AutoRespond)

	empty := AIAgent{}
	cfg, err = empty.ParseConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Response.AutoRespond)
}
