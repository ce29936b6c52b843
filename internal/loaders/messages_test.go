package loaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The idempotent insert leans on the partial unique index over
// provider_message_id. Postgres only infers a partial index as the conflict
// arbiter when the target restates the index predicate, so the statement must
// carry the WHERE clause or the insert fails with 42P10 at execution.
func TestInboundInsertConflictTarget(t *testing.T) {
	assert.Contains(t, insertInboundSQL,
		"ON CONFLICT (provider_message_id) WHERE provider_message_id IS NOT NULL DO NOTHING")
}

func TestInboundInsertColumnsMatchPlaceholders(t *testing.T) {
	// 9 bind parameters: id, tenant, conversation, direction, type, content,
	// media_ref, status, provider_message_id.
	assert.Contains(t, insertInboundSQL, "$9")
	assert.NotContains(t, insertInboundSQL, "$10")
	assert.Equal(t, 1, strings.Count(insertInboundSQL, "ON CONFLICT"))
}
