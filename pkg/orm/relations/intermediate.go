package relations

import (
	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// intermediate, pivot veya through tablosuna giden ara JOIN'i üretir. Ara
// tablo gerektirmeyen relation'lar için ok=false döner.
func intermediate(s *step) (database.JoinClause, bool, error) {
	switch r := s.relation.(type) {
	case *orm.BelongsToManyRelation:
		return pivotJoin(s, r)
	case *orm.MorphToManyRelation:
		return pivotJoin(s, &r.BelongsToManyRelation)
	case *orm.HasManyThroughRelation:
		return throughJoin(s, r)
	}
	return database.JoinClause{}, false, nil
}

// pivot.foreign_pivot_key = parent.parent_key
func pivotJoin(s *step, r *orm.BelongsToManyRelation) (database.JoinClause, bool, error) {
	conditions, err := pair(s.segment, qualify(r.Pivot, r.ForeignPivotKeys), qualify(s.parentQ, r.ParentKeys))
	if err != nil {
		return database.JoinClause{}, false, err
	}
	return database.JoinClause{
		Type:       s.joinType,
		Table:      r.Pivot,
		Conditions: conditions,
	}, true, nil
}

// through.first_key = parent.local_key (+ through soft delete)
func throughJoin(s *step, r *orm.HasManyThroughRelation) (database.JoinClause, bool, error) {
	throughQ := s.aliases.model(r.Through)
	conditions, err := pair(s.segment, qualify(throughQ, r.FirstKeys), qualify(s.parentQ, r.LocalKeys))
	if err != nil {
		return database.JoinClause{}, false, err
	}

	join := database.JoinClause{
		Type:       s.joinType,
		Table:      r.Through.Table,
		Conditions: conditions,
	}
	if throughQ != r.Through.Table {
		join.Alias = throughQ
	}
	if r.Through.SoftDeletes() {
		join.Predicates = append(join.Predicates, softDeletePredicate(throughQ, r.Through))
	}
	return join, true, nil
}
