package database

import (
	"fmt"
	"regexp"
	"strings"
)

// -----------------------------------------------------------------------------
// Grammar
// -----------------------------------------------------------------------------
// Grammar, SQL lehçesine özgü sorgu üretimini tanımlar. Lehçeler sadece
// identifier sarmalama ve placeholder biçiminde ayrışır; SELECT/JOIN/WHERE
// derlemesi ortak sqlGrammar tarafından yapılır.
//
// - MySQLGrammar: `backtick`, ?
// - PostgresGrammar: "double quote" (lib/pq), $1, $2...
// - SQLiteGrammar: "double quote", ?
// -----------------------------------------------------------------------------

type Grammar interface {
	// Wrap, identifier'ları (kolon/tablo adları) lehçeye göre sarmalar.
	// Geçersiz identifier için error döner, panic atmaz.
	Wrap(value string) (string, error)

	// CompileSelect, builder state'inden SELECT sorgusu üretir.
	CompileSelect(qb *QueryBuilder) (string, []interface{}, error)
}

var validIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var allowedOperators = map[string]bool{
	"=":        true,
	"!=":       true,
	"<>":       true,
	"<":        true,
	">":        true,
	"<=":       true,
	">=":       true,
	"LIKE":     true,
	"NOT LIKE": true,
	"IN":       true,
	"NOT IN":   true,
	"IS":       true,
	"IS NOT":   true,
}

var comparisonOperators = map[string]bool{
	"=":  true,
	"!=": true,
	"<>": true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,
}

type dialect struct {
	name        string
	quote       func(identifier string) string
	placeholder func(position int) string
}

type sqlGrammar struct {
	dialect dialect
}

// Wrap, "table.column" formatını parça parça sarmalar. "*" ve "table.*"
// olduğu gibi bırakılır.
func (g *sqlGrammar) Wrap(value string) (string, error) {
	if value == "*" {
		return value, nil
	}

	parts := strings.Split(value, ".")
	wrapped := make([]string, len(parts))
	for i, part := range parts {
		if part == "*" && i == len(parts)-1 && i > 0 {
			wrapped[i] = part
			continue
		}
		if !validIdentifierPattern.MatchString(part) {
			return "", fmt.Errorf("invalid SQL identifier: %s (contains unsafe characters)", value)
		}
		wrapped[i] = g.dialect.quote(part)
	}
	return strings.Join(wrapped, "."), nil
}

func (g *sqlGrammar) wrapColumn(c Column) (string, error) {
	return g.Wrap(c.String())
}

func validateOperator(operator string, allowed map[string]bool) error {
	op := strings.ToUpper(strings.TrimSpace(operator))
	if !allowed[op] {
		return fmt.Errorf("invalid SQL operator: %s (not in whitelist)", operator)
	}
	return nil
}

// compilation, tek bir derleme boyunca SQL metnini ve bağlı parametreleri tutar.
type compilation struct {
	sb   strings.Builder
	args []interface{}
	g    *sqlGrammar
}

func (c *compilation) bind(value interface{}) string {
	c.args = append(c.args, value)
	return c.g.dialect.placeholder(len(c.args))
}

// CompileSelect, QueryBuilder'dan SELECT sorgusu üretir.
func (g *sqlGrammar) CompileSelect(qb *QueryBuilder) (string, []interface{}, error) {
	if qb.table == "" {
		return "", nil, fmt.Errorf("%s grammar: no table selected", g.dialect.name)
	}
	c := &compilation{g: g}

	wrappedCols := make([]string, len(qb.columns))
	for i, col := range qb.columns {
		if strings.Contains(col, "(") {
			wrappedCols[i] = col
			continue
		}
		wrapped, err := g.Wrap(col)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		wrappedCols[i] = wrapped
	}

	from, err := g.tableReference(qb.table, qb.alias)
	if err != nil {
		return "", nil, err
	}
	fmt.Fprintf(&c.sb, "SELECT %s FROM %s", strings.Join(wrappedCols, ", "), from)

	for _, join := range qb.joins {
		if err := g.compileJoin(c, join); err != nil {
			return "", nil, err
		}
	}

	if err := g.compileWheres(c, qb.wheres); err != nil {
		return "", nil, err
	}

	if len(qb.orders) > 0 {
		wrappedOrders := make([]string, len(qb.orders))
		for i, order := range qb.orders {
			wrappedCol, err := g.Wrap(order.Column)
			if err != nil {
				return "", nil, fmt.Errorf("order column wrap error: %w", err)
			}
			wrappedOrders[i] = fmt.Sprintf("%s %s", wrappedCol, order.Direction)
		}
		c.sb.WriteString(" ORDER BY " + strings.Join(wrappedOrders, ", "))
	}

	if qb.limit > 0 {
		fmt.Fprintf(&c.sb, " LIMIT %d", qb.limit)
	}
	if qb.offset > 0 {
		fmt.Fprintf(&c.sb, " OFFSET %d", qb.offset)
	}

	return c.sb.String(), c.args, nil
}

func (g *sqlGrammar) tableReference(table, alias string) (string, error) {
	wrapped, err := g.Wrap(table)
	if err != nil {
		return "", fmt.Errorf("table wrap error: %w", err)
	}
	if alias == "" || alias == table {
		return wrapped, nil
	}
	wrappedAlias, err := g.Wrap(alias)
	if err != nil {
		return "", fmt.Errorf("alias wrap error: %w", err)
	}
	return wrapped + " AS " + wrappedAlias, nil
}

// compileJoin, JOIN ifadesini üretir:
//
//	INNER JOIN `tags` AS `t` ON `taggables`.`tag_id` = `t`.`id` AND `t`.`deleted_at` IS NULL
func (g *sqlGrammar) compileJoin(c *compilation, join JoinClause) error {
	if !join.Type.Valid() {
		return fmt.Errorf("invalid join type: %q", join.Type)
	}
	if len(join.Conditions) == 0 {
		return fmt.Errorf("join on %s has no conditions", join.Table)
	}

	table, err := g.tableReference(join.Table, join.Alias)
	if err != nil {
		return err
	}
	fmt.Fprintf(&c.sb, " %s JOIN %s ON ", join.Type, table)

	for i, cond := range join.Conditions {
		if err := validateOperator(cond.Operator, comparisonOperators); err != nil {
			return fmt.Errorf("join condition error: %w", err)
		}
		first, err := g.wrapColumn(cond.First)
		if err != nil {
			return fmt.Errorf("join column wrap error: %w", err)
		}
		second, err := g.wrapColumn(cond.Second)
		if err != nil {
			return fmt.Errorf("join column wrap error: %w", err)
		}
		if i > 0 {
			c.sb.WriteString(" AND ")
		}
		fmt.Fprintf(&c.sb, "%s %s %s", first, cond.Operator, second)
	}

	for _, p := range join.Predicates {
		col, err := g.wrapColumn(p.Column)
		if err != nil {
			return fmt.Errorf("join predicate wrap error: %w", err)
		}
		c.sb.WriteString(" AND ")
		if p.IsNull() {
			fmt.Fprintf(&c.sb, "%s IS NULL", col)
			continue
		}
		if err := validateOperator(p.Operator, comparisonOperators); err != nil {
			return fmt.Errorf("join predicate error: %w", err)
		}
		fmt.Fprintf(&c.sb, "%s %s %s", col, p.Operator, c.bind(p.Value))
	}
	return nil
}

func (g *sqlGrammar) compileWheres(c *compilation, wheres []WhereClause) error {
	for i, w := range wheres {
		if err := validateOperator(w.Operator, allowedOperators); err != nil {
			return fmt.Errorf("where clause error: %w", err)
		}

		wrappedCol, err := g.Wrap(w.Column)
		if err != nil {
			return fmt.Errorf("where column wrap error: %w", err)
		}

		if i == 0 {
			c.sb.WriteString(" WHERE ")
		} else {
			fmt.Fprintf(&c.sb, " %s ", w.Boolean)
		}

		operator := strings.ToUpper(strings.TrimSpace(w.Operator))
		switch operator {
		case "IN", "NOT IN":
			values, ok := w.Value.([]interface{})
			if !ok || len(values) == 0 {
				return fmt.Errorf("IN/NOT IN operator requires a non-empty []interface{} value")
			}
			placeholders := make([]string, len(values))
			for j, v := range values {
				placeholders[j] = c.bind(v)
			}
			fmt.Fprintf(&c.sb, "%s %s (%s)", wrappedCol, operator, strings.Join(placeholders, ", "))

		case "IS", "IS NOT":
			if w.Value == nil {
				fmt.Fprintf(&c.sb, "%s %s NULL", wrappedCol, operator)
			} else {
				fmt.Fprintf(&c.sb, "%s %s %s", wrappedCol, operator, c.bind(w.Value))
			}

		default:
			fmt.Fprintf(&c.sb, "%s %s %s", wrappedCol, operator, c.bind(w.Value))
		}
	}
	return nil
}
