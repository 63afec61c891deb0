// Package gormjoin, derlenmiş relation join'lerini GORM clause'larına çevirir.
// Böylece aynı plan hem QueryBuilder hem *gorm.DB sorgularında kullanılabilir.
//
//	plan, _ := joiner.Compile("reservations.tickets", database.InnerJoin)
//	db = gormjoin.Apply(db.Table("users"), plan.Clauses)
package gormjoin

import (
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ceopag/eloquence-base/pkg/database"
)

// Clause, tek bir JoinClause'u clause.Join'e çevirir.
func Clause(j database.JoinClause) clause.Join {
	exprs := make([]clause.Expression, 0, len(j.Conditions)+len(j.Predicates))
	for _, c := range j.Conditions {
		exprs = append(exprs, condition(c))
	}
	for _, p := range j.Predicates {
		exprs = append(exprs, predicate(p))
	}

	return clause.Join{
		Type:  clause.JoinType(j.Type),
		Table: clause.Table{Name: j.Table, Alias: j.Alias},
		ON:    clause.Where{Exprs: exprs},
	}
}

// Clauses, JOIN listesini sırası korunarak çevirir.
func Clauses(joins []database.JoinClause) []clause.Join {
	return lo.Map(joins, func(j database.JoinClause, _ int) clause.Join {
		return Clause(j)
	})
}

// Apply, JOIN'leri FROM clause'una ekler.
func Apply(db *gorm.DB, joins []database.JoinClause) *gorm.DB {
	if len(joins) == 0 {
		return db
	}
	return db.Clauses(clause.From{Joins: Clauses(joins)})
}

func column(c database.Column) clause.Column {
	return clause.Column{Table: c.Table, Name: c.Name}
}

func condition(c database.JoinCondition) clause.Expression {
	if c.Operator == "" || c.Operator == "=" {
		return clause.Eq{Column: column(c.First), Value: column(c.Second)}
	}
	return clause.Expr{SQL: "? " + c.Operator + " ?", Vars: []interface{}{column(c.First), column(c.Second)}}
}

func predicate(p database.JoinPredicate) clause.Expression {
	switch {
	case p.IsNull():
		return clause.Eq{Column: column(p.Column), Value: nil}
	case p.Operator == "=":
		return clause.Eq{Column: column(p.Column), Value: p.Value}
	case strings.EqualFold(p.Operator, "IS NOT") && p.Value == nil:
		return clause.Neq{Column: column(p.Column), Value: nil}
	}
	return clause.Expr{SQL: "? " + p.Operator + " ?", Vars: []interface{}{column(p.Column), p.Value}}
}
