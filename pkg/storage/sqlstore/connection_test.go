package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseReplicaURLs tests the ParseReplicaURLs function
func TestParseReplicaURLs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single URL",
			input:    "postgres://localhost:5432/reel",
			expected: []string{"postgres://localhost:5432/reel"},
		},
		{
			name:  "URLs with whitespace",
			input: " postgres://host1:5432/reel , postgres://host2:5432/reel ",
			expected: []string{
				"postgres://host1:5432/reel",
				"postgres://host2:5432/reel",
			},
		},
		{
			name:     "URLs with empty entries",
			input:    "postgres://host1:5432/reel,,postgres://host2:5432/reel,",
			expected: []string{"postgres://host1:5432/reel", "postgres://host2:5432/reel"},
		},
		{
			name:     "only commas and whitespace",
			input:    " , , , ",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseReplicaURLs(tt.input))
		})
	}
}

func TestNewConnectionManager_InvalidPrimary(t *testing.T) {
	cm, err := NewConnectionManager(ConnectionConfig{
		Dialect:    DialectSQLite,
		PrimaryURL: "file:/nonexistent-reel-dir/reel.db?mode=ro",
		Timeout:    time.Second,
	}, discardLogger())

	require.Error(t, err)
	assert.Nil(t, cm)
	assert.Contains(t, err.Error(), "failed to ping primary")
}

func TestNewConnectionManager_SQLiteIgnoresReplicas(t *testing.T) {
	cm, err := NewConnectionManager(ConnectionConfig{
		Dialect:     DialectSQLite,
		PrimaryURL:  ":memory:",
		ReplicaURLs: []string{":memory:"},
		Timeout:     time.Second,
	}, discardLogger())
	require.NoError(t, err)
	defer cm.Close()

	assert.Empty(t, cm.AllReplicas())
	assert.Equal(t, cm.Primary(), cm.Replica())
	assert.Equal(t, 1, cm.Primary().Stats().MaxOpenConnections)
	assert.Error(t, cm.AddReplica(":memory:"))
}

func TestConnectionManager_Replica(t *testing.T) {
	t.Run("no replicas - fallback to primary", func(t *testing.T) {
		primaryDB := &sql.DB{}
		cm := &ConnectionManager{primary: primaryDB}

		assert.Equal(t, primaryDB, cm.Replica(), "Should return primary when no replicas")
	})

	t.Run("round-robin selection with multiple replicas", func(t *testing.T) {
		replica1 := &sql.DB{}
		replica2 := &sql.DB{}
		replica3 := &sql.DB{}

		cm := &ConnectionManager{
			primary:  &sql.DB{},
			replicas: []*sql.DB{replica1, replica2, replica3},
		}

		selections := make(map[*sql.DB]int)
		for i := 0; i < 30; i++ {
			selections[cm.Replica()]++
		}

		assert.Equal(t, 10, selections[replica1])
		assert.Equal(t, 10, selections[replica2])
		assert.Equal(t, 10, selections[replica3])
	})

	t.Run("concurrent replica selection", func(t *testing.T) {
		replica1 := &sql.DB{}
		replica2 := &sql.DB{}

		cm := &ConnectionManager{
			primary:  &sql.DB{},
			replicas: []*sql.DB{replica1, replica2},
		}

		var wg sync.WaitGroup
		iterations := 100
		results := make(chan *sql.DB, iterations)

		for i := 0; i < iterations; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- cm.Replica()
			}()
		}

		wg.Wait()
		close(results)

		selections := make(map[*sql.DB]int)
		for replica := range results {
			selections[replica]++
		}

		assert.NotZero(t, selections[replica1])
		assert.NotZero(t, selections[replica2])
		assert.Equal(t, iterations, selections[replica1]+selections[replica2])
	})
}

func TestConnectionManager_AllReplicas_ReturnsCopy(t *testing.T) {
	replica1 := &sql.DB{}
	cm := &ConnectionManager{
		primary:  &sql.DB{},
		replicas: []*sql.DB{replica1},
	}

	replicas1 := cm.AllReplicas()
	replicas1[0] = &sql.DB{}

	assert.Equal(t, replica1, cm.AllReplicas()[0])
}

func TestConnectionManager_HealthCheck(t *testing.T) {
	newMock := func(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return db, mock
	}

	t.Run("healthy primary and replicas", func(t *testing.T) {
		primaryDB, primaryMock := newMock(t)
		replicaDB, replicaMock := newMock(t)
		primaryMock.ExpectPing()
		replicaMock.ExpectPing()

		cm := NewConnectionManagerFromDB(DialectPostgres, primaryDB, replicaDB)
		assert.NoError(t, cm.HealthCheck(context.Background()))
		assert.NoError(t, primaryMock.ExpectationsWereMet())
		assert.NoError(t, replicaMock.ExpectationsWereMet())
	})

	t.Run("unhealthy primary", func(t *testing.T) {
		primaryDB, primaryMock := newMock(t)
		primaryMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		cm := NewConnectionManagerFromDB(DialectPostgres, primaryDB)
		err := cm.HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "primary unhealthy")
	})

	t.Run("one replica down is tolerated", func(t *testing.T) {
		primaryDB, primaryMock := newMock(t)
		replica1DB, replica1Mock := newMock(t)
		replica2DB, replica2Mock := newMock(t)
		primaryMock.ExpectPing()
		replica1Mock.ExpectPing()
		replica2Mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		cm := NewConnectionManagerFromDB(DialectPostgres, primaryDB, replica1DB, replica2DB)
		assert.NoError(t, cm.HealthCheck(context.Background()))
	})

	t.Run("all replicas down", func(t *testing.T) {
		primaryDB, primaryMock := newMock(t)
		replicaDB, replicaMock := newMock(t)
		primaryMock.ExpectPing()
		replicaMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		cm := NewConnectionManagerFromDB(DialectPostgres, primaryDB, replicaDB)
		err := cm.HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "all replicas unhealthy: replica-0")
	})
}

func TestConnectionManager_RemoveUnhealthyReplicas(t *testing.T) {
	replica1DB, replica1Mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer replica1DB.Close()

	replica2DB, replica2Mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer replica2DB.Close()

	replica1Mock.ExpectPing()
	replica2Mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	replica2Mock.ExpectClose()

	cm := &ConnectionManager{
		primary:  &sql.DB{},
		replicas: []*sql.DB{replica1DB, replica2DB},
	}

	removed := cm.RemoveUnhealthyReplicas(context.Background())
	assert.Equal(t, 1, removed)
	require.Len(t, cm.replicas, 1)
	assert.Equal(t, replica1DB, cm.replicas[0])
	assert.NoError(t, replica2Mock.ExpectationsWereMet())
}

func TestConnectionManager_Close(t *testing.T) {
	primaryDB, primaryMock, err := sqlmock.New()
	require.NoError(t, err)
	replicaDB, replicaMock, err := sqlmock.New()
	require.NoError(t, err)

	primaryMock.ExpectClose()
	replicaMock.ExpectClose().WillReturnError(errors.New("close failed"))

	cm := NewConnectionManagerFromDB(DialectPostgres, primaryDB, replicaDB)
	err = cm.Close()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "replica-0 close error")
	assert.Empty(t, cm.AllReplicas())
}

func TestConnectionManager_StartHealthCheckRoutine(t *testing.T) {
	replicaDB, replicaMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer replicaDB.Close()

	replicaMock.ExpectPing().WillReturnError(errors.New("connection refused"))
	replicaMock.ExpectClose()

	cm := NewConnectionManagerFromDB(DialectPostgres, &sql.DB{}, replicaDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cm.StartHealthCheckRoutine(ctx, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(cm.AllReplicas()) == 0
	}, time.Second, 10*time.Millisecond)
}
