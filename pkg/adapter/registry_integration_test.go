package adapter_test

import (
	"testing"

	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/sqlite"
)

func TestSelfRegistration(t *testing.T) {
	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, adapter.IsRegistered(name))

			adp, err := adapter.NewAdapter(core.AdapterConfig{Type: name}, nil)
			require.NoError(t, err)
			require.NotNil(t, adp)
			assert.Equal(t, name, adp.Dialect().Name)
		})
	}
}

func TestAliases(t *testing.T) {
	for alias, want := range map[string]string{"postgresql": "postgres", "pg": "postgres", "sqlite3": "sqlite", "mariadb": "mysql"} {
		name, ok := adapter.Canonical(alias)
		require.True(t, ok, alias)
		assert.Equal(t, want, name)

		adp, err := adapter.NewAdapter(core.AdapterConfig{Type: alias}, nil)
		require.NoError(t, err)
		assert.Equal(t, want, adp.Dialect().Name)
	}
}

func TestListAdapters(t *testing.T) {
	assert.Subset(t, adapter.ListAdapters(), []string{"duckdb", "mysql", "postgres", "sqlite"})
}

func TestIsRegistered_Unknown(t *testing.T) {
	assert.False(t, adapter.IsRegistered("unknown_db"))
}
