package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestWithSQLitePragmas(t *testing.T) {
	all := "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)&_pragma=trusted_schema(0)&_pragma=cache_size(10000)"

	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"plain path", "delegation.db", "delegation.db?" + all},
		{"memory", ":memory:", ":memory:?" + all},
		{"existing query", "file:delegation.db?mode=rwc", "file:delegation.db?mode=rwc&" + all},
		{
			"caller pragma kept",
			"delegation.db?_pragma=busy_timeout(100)",
			"delegation.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)" +
				"&_pragma=synchronous(NORMAL)&_pragma=trusted_schema(0)&_pragma=cache_size(10000)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSQLitePragmas(tt.dsn))
		})
	}
}

func TestIsInMemorySQLite(t *testing.T) {
	assert.True(t, isInMemorySQLite(":memory:"))
	assert.True(t, isInMemorySQLite(withSQLitePragmas(":memory:")))
	assert.True(t, isInMemorySQLite("file:test?mode=memory&cache=shared"))
	assert.False(t, isInMemorySQLite(withSQLitePragmas("delegation.db")))
}

// Every pooled connection must enforce foreign keys, not only the first one
func TestSQLiteInitializer_PragmasOnEveryConnection(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "pool.db")
	database, err := NewDatabaseInitializer(SQLite).Initialize(DatabaseConfig{
		Type:         SQLite,
		DSN:          dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	})
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	conns := make([]*sql.Conn, 0, 3)
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()

	// Hold three connections at once so the pool has to open distinct ones
	for i := 0; i < 3; i++ {
		conn, err := database.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)

		var fk, busy int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy))
		assert.Equal(t, 1, fk, "connection %d", i)
		assert.Equal(t, 5000, busy, "connection %d", i)
	}
}
