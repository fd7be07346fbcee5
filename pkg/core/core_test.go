package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDialectConfig(t *testing.T) {
	pg := &DialectConfig{
		Identifiers: IdentifierConfig{Quote: `"`, Escape: `""`},
		Placeholder: PlaceholderDollar,
		ColumnTypes: map[string]string{"int": "BIGINT", "string": "TEXT"},
	}
	my := &DialectConfig{
		Identifiers: IdentifierConfig{Quote: "`", Escape: "``"},
		Placeholder: PlaceholderQuestion,
	}

	assert.Equal(t, "$3", pg.FormatPlaceholder(3))
	assert.Equal(t, "?", my.FormatPlaceholder(3))

	assert.Equal(t, `"City/County"`, pg.QuoteIdentifier("City/County"))
	assert.Equal(t, `"a""b"`, pg.QuoteIdentifier(`a"b`))
	assert.Equal(t, "`1997`", my.QuoteIdentifier("1997"))
	assert.Equal(t, `"etl"."GDP_Per_Capita_data"`, pg.QualifiedName("etl", "GDP_Per_Capita_data"))
	assert.Equal(t, `"t"`, pg.QualifiedName("", "t"))

	assert.Equal(t, "BIGINT", pg.ColumnType("int"))
	assert.Equal(t, "TEXT", pg.ColumnType("float"), "unknown types fall back to string")
}

func TestTargetConfig_ToAdapterConfig(t *testing.T) {
	file := &TargetConfig{Type: "sqlite", Database: "data/out.db", BatchSize: 100}
	cfg := file.ToAdapterConfig()
	assert.Equal(t, "data/out.db", cfg.Path)
	assert.Empty(t, cfg.Database)
	assert.Equal(t, 100, cfg.RowsPerBatch())

	pg := &TargetConfig{Type: "postgres", Database: "etl", Host: "db", User: "u"}
	cfg = pg.ToAdapterConfig()
	assert.Equal(t, "etl", cfg.Database)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, DefaultBatchSize, cfg.RowsPerBatch())
}

func TestRunDurations(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	r := &Run{StartedAt: start}
	assert.Zero(t, r.Duration())
	r.CompletedAt = &end
	assert.Equal(t, 1500*time.Millisecond, r.Duration())

	dr := &DatasetRun{StartedAt: start, CompletedAt: end}
	assert.Equal(t, int64(1500), dr.ExecutionMS())

	m := &TableMetadata{Columns: []Column{{Name: "State"}, {Name: "2013"}}}
	assert.Equal(t, []string{"State", "2013"}, m.ColumnNames())
}
