package relations

import (
	"github.com/samber/lo"

	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// augment, hedef JOIN'e soft delete ve morph type predicate'lerini ekler.
// Sıra: önce soft delete, sonra morph type.
func augment(s *step, join *database.JoinClause) {
	if s.related.SoftDeletes() {
		join.Predicates = append(join.Predicates, softDeletePredicate(s.relatedQ, s.related))
	}

	switch r := s.relation.(type) {
	case *orm.MorphOneOrMany:
		join.Predicates = append(join.Predicates, database.JoinPredicate{
			Column:   database.Column{Table: s.relatedQ, Name: r.MorphType},
			Operator: "=",
			Value:    r.MorphClass,
		})
	case *orm.MorphToManyRelation:
		// Pivot'taki tip kolonu niteliksiz yazılır.
		join.Predicates = append(join.Predicates, database.JoinPredicate{
			Column:   database.Column{Name: r.MorphType},
			Operator: "=",
			Value:    r.MorphClass,
		})
	}
}

func softDeletePredicate(qualifier string, m *orm.Model) database.JoinPredicate {
	return database.JoinPredicate{
		Column:   database.Column{Table: qualifier, Name: m.DeletedAt},
		Operator: "IS",
		Value:    nil,
	}
}

// alreadyJoined, adayla yapısal olarak aynı bir JOIN'in plan'da olup olmadığını söyler.
func alreadyJoined(plan []database.JoinClause, candidate database.JoinClause) bool {
	return lo.ContainsBy(plan, candidate.Equal)
}

// admit, tekrar etmeyen JOIN'leri hedefe ekler ve eklenen sayısını döner.
func (j *Joiner) admit(target Query, path string, clauses []database.JoinClause) int {
	appended := 0
	for _, c := range clauses {
		if alreadyJoined(target.Joins(), c) {
			j.logger.Debug().
				Str("path", path).
				Str("table", c.Reference()).
				Str("type", string(c.Type)).
				Msg("join already present, skipped")
			continue
		}
		target.AppendJoin(c)
		appended++
		j.logger.Debug().
			Str("path", path).
			Str("table", c.Reference()).
			Str("type", string(c.Type)).
			Int("conditions", len(c.Conditions)).
			Int("predicates", len(c.Predicates)).
			Msg("join appended")
	}
	return appended
}
