package engine

// Output store adapters register themselves with pkg/adapter from init().
import (
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapetl/pkg/adapters/sqlite"
)
