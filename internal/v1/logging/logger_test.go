package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(true))
	assert.NotNil(t, GetLogger())

	// Repeated initialization keeps the first logger.
	require.NoError(t, Initialize(false))
}

func TestGetLogger_BeforeInitialize(t *testing.T) {
	// Must never return nil, even without Initialize.
	assert.NotNil(t, GetLogger())
}

func fieldKeys(fields []zap.Field) []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func TestAppendContextFields_Empty(t *testing.T) {
	fields := appendContextFields(context.Background(), nil)

	keys := fieldKeys(fields)
	assert.Equal(t, []string{"service"}, keys)
}

func TestAppendContextFields_NilContext(t *testing.T) {
	fields := appendContextFields(nil, []zap.Field{zap.String("k", "v")})
	assert.Equal(t, []string{"k"}, fieldKeys(fields))
}

func TestAppendContextFields_Enriched(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, CorrelationIDKey, "cid-123")
	ctx = context.WithValue(ctx, RoomIDKey, "hot-espresso-42")
	ctx = context.WithValue(ctx, PeerIDKey, "peer-7")

	fields := appendContextFields(ctx, []zap.Field{zap.Int("n", 1)})

	keys := fieldKeys(fields)
	assert.Contains(t, keys, "n")
	assert.Contains(t, keys, "correlation_id")
	assert.Contains(t, keys, "room_id")
	assert.Contains(t, keys, "peer_id")
	assert.Contains(t, keys, "service")
}

func TestAppendContextFields_IgnoresWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), CorrelationIDKey, 42)

	fields := appendContextFields(ctx, nil)
	assert.NotContains(t, fieldKeys(fields), "correlation_id")
}
