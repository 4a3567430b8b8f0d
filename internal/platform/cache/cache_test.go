package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

func TestNamespace_GenerationDefaultsToZero(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ns := NewNamespace(db, "booking_view", time.Minute)

	mock.ExpectGet("booking_view:generation").RedisNil()

	gen, err := ns.Generation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "0", gen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamespace_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ns := NewNamespace(db, "booking_view", time.Minute)

	mock.ExpectGet(ns.EntryKey("0", "gala", "1", "20")).RedisNil()

	var got entry
	hit, err := ns.Get(context.Background(), "0", &got, "gala", "1", "20")

	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamespace_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ns := NewNamespace(db, "booking_view", time.Minute)

	mock.ExpectGet("booking_view:generation").SetVal("3")
	mock.ExpectGet(ns.EntryKey("3", "gala")).SetVal(`{"name":"Gala"}`)

	ctx := context.Background()
	gen, err := ns.Generation(ctx)
	require.NoError(t, err)

	var got entry
	hit, err := ns.Get(ctx, gen, &got, "gala")

	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Gala", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamespace_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ns := NewNamespace(db, "booking_view", time.Minute)

	mock.ExpectSet(ns.EntryKey("2", "gala"), []byte(`{"name":"Gala"}`), time.Minute).SetVal("OK")

	require.NoError(t, ns.Set(context.Background(), "2", entry{Name: "Gala"}, "gala"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A page loaded before an Invalidate is written under the old generation and
// never served after it.
func TestNamespace_SetAfterInvalidateStaysInOldGeneration(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ns := NewNamespace(db, "booking_view", time.Minute)
	ctx := context.Background()

	mock.ExpectGet("booking_view:generation").SetVal("5")
	mock.ExpectIncr("booking_view:generation").SetVal(6)
	mock.ExpectSet(ns.EntryKey("5", "gala"), []byte(`{"name":"Stale"}`), time.Minute).SetVal("OK")
	mock.ExpectGet("booking_view:generation").SetVal("6")
	mock.ExpectGet(ns.EntryKey("6", "gala")).RedisNil()

	gen, err := ns.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, ns.Invalidate(ctx))
	require.NoError(t, ns.Set(ctx, gen, entry{Name: "Stale"}, "gala"))

	next, err := ns.Generation(ctx)
	require.NoError(t, err)
	var got entry
	hit, err := ns.Get(ctx, next, &got, "gala")

	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamespace_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ns := NewNamespace(db, "booking_view", time.Minute)

	mock.ExpectIncr("booking_view:generation").SetVal(4)

	require.NoError(t, ns.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryKey_DependsOnGeneration(t *testing.T) {
	ns := NewNamespace(nil, "booking_view", time.Minute)

	assert.NotEqual(t, ns.EntryKey("1", "gala"), ns.EntryKey("2", "gala"))
	assert.NotEqual(t, ns.EntryKey("1", "ga", "la"), ns.EntryKey("1", "gal", "a"))
}
