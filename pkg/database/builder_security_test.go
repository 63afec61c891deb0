package database

import (
	"testing"
)

// -----------------------------------------------------------------------------
// SQL INJECTION GÜVENLİK TESTLERİ
// -----------------------------------------------------------------------------
// Identifier alan tüm builder metodları güvensiz girdide panic atmalıdır.
// -----------------------------------------------------------------------------

func expectPanic(t *testing.T, input string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for malicious input '%s', but no panic occurred", input)
		}
	}()
	fn()
}

// TestSQLInjection_OrderBy_MaliciousColumn tests SQL injection prevention in OrderBy
func TestSQLInjection_OrderBy_MaliciousColumn(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())

	maliciousInputs := []struct {
		name   string
		column string
	}{
		{name: "DROP TABLE attack", column: "id; DROP TABLE users--"},
		{name: "OR injection", column: "id' OR '1'='1"},
		{name: "UNION attack", column: "id UNION SELECT * FROM passwords--"},
		{name: "Comment injection", column: "id--"},
		{name: "Backtick injection", column: "id`"},
		{name: "Double quote injection", column: `id"`},
	}

	for _, tc := range maliciousInputs {
		t.Run(tc.name, func(t *testing.T) {
			expectPanic(t, tc.column, func() {
				qb.Table("users").OrderBy(tc.column, "DESC")
			})
		})
	}
}

// TestSQLInjection_Where_MaliciousColumn tests SQL injection prevention in Where
func TestSQLInjection_Where_MaliciousColumn(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())

	for _, column := range []string{
		"id; DROP TABLE users--",
		"id' OR '1'='1",
		"id/**/OR/**/1=1",
	} {
		t.Run(column, func(t *testing.T) {
			expectPanic(t, column, func() {
				qb.Table("users").Where(column, "=", 1)
			})
		})
	}
}

// TestSQLInjection_Table_MaliciousName tests SQL injection prevention in Table and As
func TestSQLInjection_Table_MaliciousName(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())

	for _, table := range []string{
		"users; DROP TABLE sessions--",
		"users' OR '1'='1",
		"users/**/UNION/**/SELECT",
	} {
		t.Run(table, func(t *testing.T) {
			expectPanic(t, table, func() { qb.Table(table) })
			expectPanic(t, table, func() { qb.Table("users").As(table) })
		})
	}
}

// TestSQLInjection_JoinOn_MaliciousInput tests the hand-written join helpers
func TestSQLInjection_JoinOn_MaliciousInput(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar()).Table("events")

	expectPanic(t, "venues; DROP", func() {
		qb.JoinOn("venues; DROP", "venues.id", "=", "events.venue_id")
	})
	expectPanic(t, "venues.id'--", func() {
		qb.LeftJoinOn("venues", "venues.id'--", "=", "events.venue_id")
	})
}

// TestMultipleDots tests that identifiers with more than one dot are rejected
func TestMultipleDots(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())

	for _, column := range []string{"db.users.id", "a.b.c.d", "users..id", ".id"} {
		t.Run(column, func(t *testing.T) {
			expectPanic(t, column, func() { qb.Table("users").Where(column, "=", 1) })
		})
	}
}

// TestValidIdentifiers tests that normal identifiers pass validation
func TestValidIdentifiers(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())

	for _, column := range []string{"id", "user_id", "users.id", "created_at", "Column1"} {
		t.Run(column, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Unexpected panic for valid identifier '%s': %v", column, r)
				}
			}()
			qb.Table("users").Where(column, "=", 1).OrderBy(column, "asc")
		})
	}
}

// TestTableWildcardColumn tests that "table.*" is accepted in Select while malformed wildcards are not
func TestTableWildcardColumn(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar()).Table("tickets").Select("tickets.*")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}
	expected := "SELECT `tickets`.* FROM `tickets`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}

	for _, column := range []string{"db.tickets.*", ".*", "tickets;.*", "tickets.*.*"} {
		t.Run(column, func(t *testing.T) {
			expectPanic(t, column, func() { NewBuilder(nil, NewMySQLGrammar()).Table("tickets").Select(column) })
		})
	}

	expectPanic(t, "tickets.* as table", func() { NewBuilder(nil, NewMySQLGrammar()).Table("tickets.*") })
}

// TestSQLFunctions tests that aggregate expressions are accepted in Select
func TestSQLFunctions(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar()).Table("tickets").Select("COUNT(*) as total")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}
	expected := "SELECT COUNT(*) as total FROM `tickets`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}

	expectPanic(t, "COUNT(*); DROP", func() { qb.Select("COUNT(*); DROP TABLE users") })
}
