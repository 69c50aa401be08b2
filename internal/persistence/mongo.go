package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/spec-kit/qa-admin-service/internal/config"
)

// ErrNotReady indicates no usable connection is currently held.
var ErrNotReady = errors.New("document store connection not ready")

// Mongo owns the document-store client handle and its readiness state.
// Reconnection attempts are serialized through the mutex so concurrent
// requests cannot establish duplicate connections.
type Mongo struct {
	cfg             config.MongoConfig
	logger          *zap.Logger
	probeCollection string

	mu     sync.RWMutex
	client *mongo.Client
	ready  bool
}

// NewMongo establishes the initial connection with bounded retries.
// probeCollection names the collection used for the trivial read that
// confirms the store is actually reachable before readiness is flagged.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger, probeCollection string) (*Mongo, error) {
	m := &Mongo{cfg: cfg, logger: logger, probeCollection: probeCollection}

	attempts := cfg.MaxConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		logger.Info("attempting document store connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts))

		if err := m.connect(ctx); err != nil {
			lastErr = err
			logger.Warn("document store connection attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			if attempt < attempts {
				select {
				case <-time.After(cfg.RetryDelay()):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			continue
		}
		return m, nil
	}

	return nil, fmt.Errorf("document store unreachable after %d attempts: %w", attempts, lastErr)
}

// connect performs a single connection attempt: dial, ping, probe read.
// The stored handle and readiness flag are only swapped once all three
// steps succeed.
func (m *Mongo) connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetServerSelectionTimeout(m.cfg.ServerSelectionTimeout()).
		SetConnectTimeout(m.cfg.ConnectTimeout()).
		SetSocketTimeout(m.cfg.SocketTimeout())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	probe := client.Database(m.cfg.Database).Collection(m.probeCollection)
	count, err := probe.CountDocuments(ctx, bson.D{})
	if err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	if m.client != nil {
		_ = m.client.Disconnect(ctx)
	}
	m.client = client
	m.ready = true

	m.logger.Info("connected to document store",
		zap.String("database", m.cfg.Database),
		zap.String("probe_collection", m.probeCollection),
		zap.Int64("probe_count", count))
	return nil
}

// Ready reports whether the connection was confirmed usable.
func (m *Mongo) Ready() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Reconnect performs one synchronous reconnection attempt. A request that
// finds the flag cleared calls this before rejecting with 503. If another
// request restored the connection in the meantime this is a no-op.
func (m *Mongo) Reconnect(ctx context.Context) error {
	if m.Ready() {
		return nil
	}
	m.logger.Warn("document store connection lost, attempting to reconnect")
	return m.connect(ctx)
}

// MarkNotReady clears the readiness flag after an operation-level failure.
func (m *Mongo) MarkNotReady() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.ready = false
	m.mu.Unlock()
}

// Collection returns a handle to the named collection in the configured
// database, or an error when no connection is held.
func (m *Mongo) Collection(name string) (*mongo.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil || !m.ready {
		return nil, ErrNotReady
	}
	return m.client.Database(m.cfg.Database).Collection(name), nil
}

// Ping verifies store connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return ErrNotReady
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close releases the client.
func (m *Mongo) Close(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		_ = m.client.Disconnect(ctx)
		m.client = nil
	}
	m.ready = false
}
