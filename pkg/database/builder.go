package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// -----------------------------------------------------------------------------
// QUERY BUILDER
// -----------------------------------------------------------------------------
// Builder; tablo, alias, kolonlar, join'ler, where'lar, order, limit ve offset
// state'ini tutar. SQL üretimi Grammar katmanına devredilir.
//
// Relation join'leri (pkg/orm/relations) AppendJoin üzerinden eklenir; builder
// JOIN listesinin sahibidir ve sırasını korur.
// -----------------------------------------------------------------------------

// validIdentifierRegex, güvenli SQL identifier pattern'ini tanımlar.
// Sadece alphanumeric, underscore ve nokta (table.column için) kabul eder.
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_\.]+$`)

type QueryBuilder struct {
	executor QueryExecutor
	grammar  Grammar
	table    string
	alias    string
	columns  []string
	joins    []JoinClause
	wheres   []WhereClause
	orders   []OrderClause
	limit    int
	offset   int
}

// NewBuilder, veritabanı bağlantısını alarak yeni QueryBuilder üretir.
//
// Parametreler:
//   - executor: SQL komutlarını çalıştıracak executor (*sql.DB veya *sql.Tx); sadece ToSQL kullanılacaksa nil olabilir
//   - grammar: SQL dialect'ini yöneten grammar (MySQL, PostgreSQL, SQLite)
func NewBuilder(executor QueryExecutor, grammar Grammar) *QueryBuilder {
	return &QueryBuilder{
		executor: executor,
		grammar:  grammar,
		columns:  []string{"*"},
	}
}

// validateIdentifier, SQL identifier'ı (column/table adı) validate eder.
//
// Panic:
// Geçersiz identifier bulunursa panic atar. Identifier'lar geliştirici
// tarafından yazılır; kullanıcı input'u asla buraya ulaşmamalıdır.
//
// Örnekler:
//   - ✅ "users", "user_id", "users.id", "tickets.*" (sadece kolon)
//   - ❌ "id; DROP TABLE users--" → panic
func validateIdentifier(identifier string, context string) {
	if identifier == "*" {
		return
	}

	if table, ok := strings.CutSuffix(identifier, ".*"); ok && context == "column" {
		if strings.Contains(table, ".") {
			panic(fmt.Sprintf("Invalid %s name: '%s' (too many dots)", context, identifier))
		}
		validateIdentifier(table, "table")
		return
	}

	if strings.TrimSpace(identifier) == "" {
		panic(fmt.Sprintf("Invalid %s name: empty identifier", context))
	}

	if !validIdentifierRegex.MatchString(identifier) {
		panic(fmt.Sprintf("Invalid %s name: '%s' (contains unsafe characters)", context, identifier))
	}

	if strings.Contains(identifier, ".") {
		parts := strings.Split(identifier, ".")
		if len(parts) > 2 {
			panic(fmt.Sprintf("Invalid %s name: '%s' (too many dots)", context, identifier))
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				panic(fmt.Sprintf("Invalid %s name: '%s' (empty part)", context, identifier))
			}
		}
	}
}

// Table, sorgunun çalışacağı tablo adını belirler.
//
//	qb.Table("events")
func (qb *QueryBuilder) Table(tableName string) *QueryBuilder {
	validateIdentifier(tableName, "table")
	qb.table = tableName
	return qb
}

// As, ana tabloya alias verir.
//
//	qb.Table("users").As("u") → FROM `users` AS `u`
func (qb *QueryBuilder) As(alias string) *QueryBuilder {
	if alias != "" {
		validateIdentifier(alias, "alias")
	}
	qb.alias = alias
	return qb
}

// From, ana tablo referansını döner (alias varsa alias).
func (qb *QueryBuilder) From() string {
	if qb.alias != "" {
		return qb.alias
	}
	return qb.table
}

// Select, sorgudan döndürülecek kolonları belirler.
//
//	qb.Select("events.id", "venues.name")
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, col := range columns {
		if strings.Contains(col, "(") && strings.Contains(col, ")") {
			// COUNT(*), SUM(price) gibi ifadeler; sadece kaba kontrol
			if strings.Contains(col, ";") || strings.Contains(col, "--") {
				panic(fmt.Sprintf("Invalid column expression: '%s' (suspicious content)", col))
			}
			continue
		}
		validateIdentifier(col, "column")
	}

	qb.columns = columns
	return qb
}

// Where, sorguya bir AND WHERE koşulu ekler. Operator whitelist kontrolü
// Grammar katmanında yapılır.
//
//	qb.Where("events.status", "=", "published")
func (qb *QueryBuilder) Where(column string, operator string, value interface{}) *QueryBuilder {
	return qb.addWhere(column, operator, value, "AND")
}

// OrWhere, sorguya bir OR WHERE koşulu ekler.
func (qb *QueryBuilder) OrWhere(column string, operator string, value interface{}) *QueryBuilder {
	return qb.addWhere(column, operator, value, "OR")
}

// WhereIn, kolonun verilen değerlerden biri olmasını şart koşar.
//
//	qb.WhereIn("status", []interface{}{"active", "pending"})
//	→ WHERE `status` IN (?, ?)
func (qb *QueryBuilder) WhereIn(column string, values []interface{}) *QueryBuilder {
	return qb.addWhere(column, "IN", values, "AND")
}

// WhereNull, kolonun NULL olmasını şart koşar.
func (qb *QueryBuilder) WhereNull(column string) *QueryBuilder {
	return qb.addWhere(column, "IS", nil, "AND")
}

// WhereNotNull, kolonun NULL olmamasını şart koşar.
func (qb *QueryBuilder) WhereNotNull(column string) *QueryBuilder {
	return qb.addWhere(column, "IS NOT", nil, "AND")
}

func (qb *QueryBuilder) addWhere(column, operator string, value interface{}, boolean string) *QueryBuilder {
	validateIdentifier(column, "column")

	qb.wheres = append(qb.wheres, WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
		Boolean:  boolean,
	})
	return qb
}

// OrderBy, sonuçları kolona göre sıralar. Geçersiz direction değerleri ASC olur.
func (qb *QueryBuilder) OrderBy(column string, direction string) *QueryBuilder {
	validateIdentifier(column, "column")

	orderDir := OrderAsc
	if strings.ToUpper(strings.TrimSpace(direction)) == "DESC" {
		orderDir = OrderDesc
	}

	qb.orders = append(qb.orders, OrderClause{Column: column, Direction: orderDir})
	return qb
}

// Limit, döndürülecek maksimum satır sayısını belirler.
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.limit = limit
	return qb
}

// Offset, atlanacak satır sayısını belirler.
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.offset = offset
	return qb
}

// -----------------------------------------------------------------------------
// JOIN STATE
// -----------------------------------------------------------------------------

// Joins, mevcut JOIN listesinin kopyasını sırasıyla döner.
func (qb *QueryBuilder) Joins() []JoinClause {
	return lo.Map(qb.joins, func(j JoinClause, _ int) JoinClause {
		return j.Clone()
	})
}

// AppendJoin, JOIN'i listenin sonuna ekler. Tekrar kontrolü yapmaz;
// relation join'leri kendi kontrollerini AppendJoin'den önce yapar.
func (qb *QueryBuilder) AppendJoin(join JoinClause) {
	qb.joins = append(qb.joins, join.Clone())
}

// HasJoin, yapısal olarak aynı bir JOIN'in zaten eklenip eklenmediğini söyler.
func (qb *QueryBuilder) HasJoin(join JoinClause) bool {
	return lo.ContainsBy(qb.joins, join.Equal)
}

// JoinOn, tek koşullu INNER JOIN ekler (elle yazılan join'ler için).
//
//	qb.JoinOn("venues", "venues.id", "=", "events.venue_id")
//	→ INNER JOIN `venues` ON `venues`.`id` = `events`.`venue_id`
func (qb *QueryBuilder) JoinOn(table, first, operator, second string) *QueryBuilder {
	return qb.joinOn(InnerJoin, table, first, operator, second)
}

// LeftJoinOn, tek koşullu LEFT JOIN ekler.
func (qb *QueryBuilder) LeftJoinOn(table, first, operator, second string) *QueryBuilder {
	return qb.joinOn(LeftJoin, table, first, operator, second)
}

// RightJoinOn, tek koşullu RIGHT JOIN ekler.
func (qb *QueryBuilder) RightJoinOn(table, first, operator, second string) *QueryBuilder {
	return qb.joinOn(RightJoin, table, first, operator, second)
}

func (qb *QueryBuilder) joinOn(joinType JoinType, table, first, operator, second string) *QueryBuilder {
	validateIdentifier(table, "table")
	validateIdentifier(first, "column")
	validateIdentifier(second, "column")

	join := JoinClause{
		Type:  joinType,
		Table: table,
		Conditions: []JoinCondition{
			{First: Col(first), Operator: operator, Second: Col(second)},
		},
	}
	if !qb.HasJoin(join) {
		qb.AppendJoin(join)
	}
	return qb
}

// -----------------------------------------------------------------------------
// EXECUTION
// -----------------------------------------------------------------------------

// ToSQL, builder state'ini SQL string'e ve parametrelere dönüştürür.
//
//	sql, args, err := qb.ToSQL()
//	// SELECT `events`.* FROM `events` INNER JOIN `venues` ON ... WHERE `events`.`status` = ?
func (qb *QueryBuilder) ToSQL() (string, []interface{}, error) {
	return qb.grammar.CompileSelect(qb)
}

// Get, sorguyu çalıştırır ve satırları map olarak döner.
func (qb *QueryBuilder) Get(ctx context.Context) ([]map[string]interface{}, error) {
	if qb.executor == nil {
		return nil, fmt.Errorf("query builder has no executor")
	}

	sqlStr, args, err := qb.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("query compilation failed: %w", err)
	}

	rows, err := qb.executor.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	return rowsToMaps(rows)
}

// First, LIMIT 1 ile çalıştırır ve ilk satırı döner. Satır yoksa sql.ErrNoRows.
func (qb *QueryBuilder) First(ctx context.Context) (map[string]interface{}, error) {
	qb.Limit(1)

	rows, err := qb.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}
