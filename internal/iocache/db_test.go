package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/rateplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "aggregate_cache", false},
		{"leading underscore", "_cache", false},
		{"digits", "cache_2", false},
		{"empty", "", true},
		{"leading digit", "2cache", true},
		{"injection", "cache; DROP TABLE x", true},
		{"quote", `cache"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`rateplot_runs`", quoteTableName("rateplot_runs", schema.MySQLBackend))
	assert.Equal(t, `"rateplot_runs"`, quoteTableName("rateplot_runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"rateplot_runs"`, quoteTableName("rateplot_runs", schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2", "$3"}, placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, []string{"?", "?"}, placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, []string{"?"}, placeholders(schema.SQLiteBackend, 1))
	assert.Empty(t, placeholders(schema.SQLiteBackend, 0))
}

func TestDriverFor(t *testing.T) {
	tests := map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	}
	for backend, want := range tests {
		got, err := driverFor(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := driverFor(schema.NoneBackend)
	assert.Error(t, err)
	_, err = driverFor("oracle")
	assert.Error(t, err)
}

func TestOpenDBErrors(t *testing.T) {
	_, err := openDB(schema.MySQLBackend, "not a dsn", "")
	assert.Error(t, err)
	_, err = openDB("oracle", "", "")
	assert.Error(t, err)
}

func TestTimeColumn(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)

	t.Run("sqlite text round trip", func(t *testing.T) {
		col := timeColumn{backend: schema.SQLiteBackend}
		col.text.String = formatTime(ts, schema.SQLiteBackend).(string)
		col.text.Valid = true
		got, err := col.value()
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, ts.Equal(*got))
	})

	t.Run("sqlite text sorts lexically", func(t *testing.T) {
		a := formatTime(ts, schema.SQLiteBackend).(string)
		b := formatTime(ts.Add(time.Nanosecond*400), schema.SQLiteBackend).(string)
		c := formatTime(ts.Add(time.Second), schema.SQLiteBackend).(string)
		assert.Less(t, a, b)
		assert.Less(t, b, c)
	})

	t.Run("null", func(t *testing.T) {
		for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.PostgreSQLBackend} {
			col := timeColumn{backend: backend}
			got, err := col.value()
			require.NoError(t, err)
			assert.Nil(t, got)
		}
	})

	t.Run("bad text", func(t *testing.T) {
		col := timeColumn{backend: schema.SQLiteBackend}
		col.text.String, col.text.Valid = "yesterday", true
		_, err := col.value()
		assert.Error(t, err)
	})

	t.Run("native", func(t *testing.T) {
		col := timeColumn{backend: schema.MySQLBackend}
		col.native.Time, col.native.Valid = ts, true
		got, err := col.value()
		require.NoError(t, err)
		assert.Equal(t, ts, *got)
		assert.Equal(t, ts, formatTime(ts, schema.MySQLBackend))
	})
}
