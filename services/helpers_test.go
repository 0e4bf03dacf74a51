package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := config.OpenStore(context.Background(), config.Database{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, 7*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func seedUser(t *testing.T, s store.Store, name string, role models.Role, address, phone string) *models.User {
	t.Helper()
	hash, err := hashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{
		Name:            name,
		Email:           name + "@example.com",
		PasswordHash:    hash,
		Role:            role,
		DeliveryAddress: address,
		PhoneNumber:     phone,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedMenuItem(t *testing.T, s store.Store, name string, price float64, available bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    models.CategoryMainCourse,
		IsAvailable: available,
	}
	require.NoError(t, s.CreateMenuItems(context.Background(), item))
	return item
}

// recordingPublisher keeps every published event in memory
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %T: %v", err, err)
	require.Equal(t, kind, svcErr.Kind, "message: %s", svcErr.Message)
}

var testLogger = logger.Discard()
