package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "contratos_clientes")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Put(ctx, "contratos_clientes", []byte(`[{"id":"a"}]`)))
	got, err := kv.Get(ctx, "contratos_clientes")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))

	// last write wins
	require.NoError(t, kv.Put(ctx, "contratos_clientes", []byte(`[]`)))
	got, err = kv.Get(ctx, "contratos_clientes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	assert.NoError(t, kv.Ping(ctx))
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("[1]")
	require.NoError(t, m.Put(ctx, "k", value))
	value[1] = '2'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(got))
}

func TestRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	kv, err := NewRedis(context.Background(), srv.Addr(), "", 0)
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)
}

func TestRedis_FromClient(t *testing.T) {
	srv := miniredis.RunT(t)
	kv := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	defer kv.Close()

	require.NoError(t, kv.Put(context.Background(), "k", []byte("v")))
	v, err := srv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestSQLite(t *testing.T) {
	kv, err := OpenSQL(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)
}

func TestSQL_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kv := NewSQL(sqlx.NewDb(db, "postgres"))
	ctx := context.Background()

	mock.ExpectQuery(`SELECT value\s+FROM records\s+WHERE key = \$1`).
		WithArgs("pagamentos_clientes").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err = kv.Get(ctx, "pagamentos_clientes")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("pagamentos_clientes", "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, kv.Put(ctx, "pagamentos_clientes", []byte("[]")))

	mock.ExpectQuery(`SELECT value`).
		WithArgs("pagamentos_clientes").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[]"))

	got, err := kv.Get(ctx, "pagamentos_clientes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	kv := WithPrefix(mem, "loja1:")

	require.NoError(t, kv.Put(ctx, "contratos_clientes", []byte("[]")))

	_, err := mem.Get(ctx, "contratos_clientes")
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := mem.Get(ctx, "loja1:contratos_clientes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	kv, err := Open(context.Background(), Options{Driver: DriverMemory, KeyPrefix: "x:"}, logger)
	require.NoError(t, err)
	assert.NoError(t, kv.Ping(context.Background()))

	_, err = Open(context.Background(), Options{Driver: "mongo"}, logger)
	assert.Error(t, err)
}
