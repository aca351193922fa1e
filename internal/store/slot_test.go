package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	return args.Get(0).([]string), args.Error(1)
}

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestSlot_RoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	slot := NewSlot[[]record](kv, "clinic:healthcare-patients", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, slot.Save(ctx, []record{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Smith"}}))

	raw, err := kv.Get(ctx, "clinic:healthcare-patients")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"John Doe"},{"id":2,"name":"Jane Smith"}]`, raw)

	got := slot.Load(ctx, nil)
	assert.Equal(t, []record{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Smith"}}, got)
}

func TestSlot_LoadMissingReturnsDefault(t *testing.T) {
	slot := NewSlot[[]record](NewMemoryKV(), "k", zap.NewNop())
	def := []record{{ID: 9, Name: "seed"}}
	assert.Equal(t, def, slot.Load(context.Background(), def))
}

func TestSlot_LoadCorruptReturnsDefault(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "k", "{not json", 0))

	slot := NewSlot[[]record](kv, "k", zap.NewNop())
	def := []record{{ID: 1}}
	assert.Equal(t, def, slot.Load(ctx, def))
}

func TestSlot_LoadBackendErrorReturnsDefault(t *testing.T) {
	kv := new(mockKV)
	kv.On("Get", mock.Anything, "k").Return("", errors.New("connection refused"))

	slot := NewSlot[[]record](kv, "k", nil)
	assert.Equal(t, []record{}, slot.Load(context.Background(), []record{}))
	kv.AssertExpectations(t)
}

func TestSlot_SaveErrorIsReturned(t *testing.T) {
	kv := new(mockKV)
	kv.On("Set", mock.Anything, "k", `[{"id":1,"name":"A"}]`, time.Duration(0)).Return(errors.New("connection refused"))

	slot := NewSlot[[]record](kv, "k", zap.NewNop())
	err := slot.Save(context.Background(), []record{{ID: 1, Name: "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write k")
	assert.Contains(t, err.Error(), "connection refused")
	kv.AssertExpectations(t)
}
