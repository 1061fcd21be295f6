package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio/internal/database"
	"portfolio/internal/database/migration"
)

func TestCounterSQL_Increment_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCounterSQL(db, database.Postgres)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO counters \(name, value, updated_at\)\s+VALUES \(\$1, 1`).
			WithArgs("site:visits").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(42)))

		v, err := repo.Increment(ctx, "site:visits")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO counters").
			WithArgs("site:visits").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Increment(ctx, "site:visits")
		assert.EqualError(t, err, "connection reset")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterSQL_Get_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCounterSQL(db, database.Postgres)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT value FROM counters WHERE name = \$1`).
			WithArgs("site:visits").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(7)))

		v, err := repo.Get(ctx, "site:visits")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})

	t.Run("missing counter reads as zero", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM counters").
			WithArgs("other").
			WillReturnError(sql.ErrNoRows)

		v, err := repo.Get(ctx, "other")
		assert.NoError(t, err)
		assert.Zero(t, v)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterSQL_SQLitePlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := NewCounterSQL(db, database.SQLite)

	mock.ExpectQuery(`SELECT value FROM counters WHERE name = \?`).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectPing()

	_, err = repo.Get(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would otherwise get its own in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.EnsureMigrated(context.Background(), db, database.SQLite, zap.NewNop()))
	return db
}

func TestCounterSQL_SQLite_SequentialIncrements(t *testing.T) {
	repo := NewCounterSQL(openSQLite(t), database.SQLite)
	ctx := context.Background()

	v, err := repo.Get(ctx, "site:visits")
	require.NoError(t, err)
	assert.Zero(t, v)

	for want := int64(1); want <= 25; want++ {
		got, err := repo.Increment(ctx, "site:visits")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := repo.Increment(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "counters are independent")

	v, err = repo.Get(ctx, "site:visits")
	require.NoError(t, err)
	assert.Equal(t, int64(25), v)
}

func TestCounterSQL_SQLite_ConcurrentIncrements(t *testing.T) {
	repo := NewCounterSQL(openSQLite(t), database.SQLite)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	seen := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Increment(ctx, "site:visits")
			assert.NoError(t, err)
			seen <- v
		}()
	}
	wg.Wait()
	close(seen)

	got := make(map[int64]bool, n)
	for v := range seen {
		got[v] = true
	}
	assert.Len(t, got, n, "every increment observed a distinct value")
	for i := int64(1); i <= n; i++ {
		assert.True(t, got[i], "missing %d", i)
	}
}
