package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/qa-admin-service/internal/config"
)

func TestNewMongo_InvalidURIFailsAfterRetries(t *testing.T) {
	cfg := config.MongoConfig{
		URI:                "not-a-mongodb-uri",
		Database:           "qa_admin",
		MaxConnectAttempts: 2,
		RetryDelayS:        0,
	}

	_, err := NewMongo(context.Background(), cfg, zap.NewNop(), "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestMongo_NotReadyByDefault(t *testing.T) {
	m := &Mongo{logger: zap.NewNop()}

	assert.False(t, m.Ready())

	_, err := m.Collection("users")
	assert.ErrorIs(t, err, ErrNotReady)

	assert.ErrorIs(t, m.Ping(context.Background()), ErrNotReady)
}

func TestMongo_MarkNotReadyOnNil(t *testing.T) {
	var m *Mongo
	assert.False(t, m.Ready())
	m.MarkNotReady()
}
