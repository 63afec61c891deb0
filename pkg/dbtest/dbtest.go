// -----------------------------------------------------------------------------
// Database Testing Helpers
// -----------------------------------------------------------------------------
// Join planlarını gerçek bir veritabanında çalıştıran testler için
// yardımcılar. In-memory SQLite kullanılır; cgo ve dış servis gerekmez.
//
// Kullanım:
//
//	func TestVenueEvents(t *testing.T) {
//	    db := dbtest.RefreshDatabase(t, dbtest.ReadStatements(t, "testdata/schema.sql")...)
//	    venues := dbtest.NewFactory("venues", map[string]interface{}{"name": "Arena"})
//	    venues.Create(t, db, map[string]interface{}{"id": 1})
//	}
// -----------------------------------------------------------------------------

package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/ceopag/eloquence-base/pkg/database"
)

// RefreshDatabase, boş bir in-memory SQLite veritabanı açar ve verilen
// DDL komutlarını sırayla çalıştırır. Bağlantı test sonunda kapatılır.
func RefreshDatabase(t testing.TB, statements ...string) *sql.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), database.ConnectionConfig{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

// ReadStatements, SQL dosyasını ";" ile komutlara böler. Boş komutlar ve
// "--" ile başlayan satırlar atlanır.
func ReadStatements(t testing.TB, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := lo.Reject(strings.Split(string(data), "\n"), func(line string, _ int) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "--")
	})
	statements := lo.Map(strings.Split(strings.Join(lines, "\n"), ";"), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(statements)
}

// DatabaseTransaction, fn'i bir transaction içinde çalıştırır ve her durumda
// rollback yapar; test verisi veritabanında kalmaz.
func DatabaseTransaction(t testing.TB, db *sql.DB, grammar database.Grammar, fn func(tx *database.Transaction)) {
	t.Helper()

	tx, err := database.BeginTransaction(context.Background(), db, grammar)
	require.NoError(t, err)
	defer func() {
		_ = tx.Rollback()
	}()

	fn(tx)
}

// Factory, bir tablo için varsayılan değerlerle satır üretir.
type Factory struct {
	table    string
	defaults map[string]interface{}
}

// NewFactory, yeni bir factory oluşturur.
func NewFactory(table string, defaults map[string]interface{}) *Factory {
	return &Factory{table: table, defaults: defaults}
}

// Make, varsayılanları override'larla birleştirip satırı döner.
func (f *Factory) Make(overrides map[string]interface{}) map[string]interface{} {
	return lo.Assign(f.defaults, overrides)
}

// Create, satırı üretir ve INSERT eder. Kolonlar isim sırasıyla yazılır.
func (f *Factory) Create(t testing.TB, exec database.QueryExecutor, overrides map[string]interface{}) map[string]interface{} {
	t.Helper()

	row := f.Make(overrides)
	columns := lo.Keys(row)
	sort.Strings(columns)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		f.table,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
	args := lo.Map(columns, func(c string, _ int) interface{} { return row[c] })

	_, err := exec.ExecContext(context.Background(), query, args...)
	require.NoError(t, err, query)
	return row
}
