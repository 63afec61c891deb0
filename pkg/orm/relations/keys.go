package relations

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// step, path'teki tek bir segmentin çözümlemesi için gereken her şeyi taşır.
type step struct {
	parent   *orm.Model
	parentQ  string // parent'ın sorgudaki niteleyicisi
	segment  string
	path     string // root'tan bu segmente kadar olan path ("orders.items")
	relation orm.Relation
	related  *orm.Model
	relatedQ string // related'ın sorgudaki niteleyicisi
	joinType database.JoinType
	aliases  Aliases
}

// qualify, kolon adlarını verilen niteleyiciyle Column listesine çevirir.
func qualify(qualifier string, names []string) []database.Column {
	return lo.Map(names, func(name string, _ int) database.Column {
		return database.Column{Table: qualifier, Name: name}
	})
}

// pair, iki kolon listesini sırayla eşleştirip ON koşullarına dönüştürür.
// Uzunluklar farklıysa *orm.KeyArityError döner.
func pair(relation string, first, second []database.Column) ([]database.JoinCondition, error) {
	if len(first) == 0 || len(first) != len(second) {
		return nil, &orm.KeyArityError{
			Relation: relation,
			Left:     lo.Map(first, func(c database.Column, _ int) string { return c.String() }),
			Right:    lo.Map(second, func(c database.Column, _ int) string { return c.String() }),
		}
	}
	return lo.Map(first, func(c database.Column, i int) database.JoinCondition {
		return database.JoinCondition{First: c, Operator: "=", Second: second[i]}
	}), nil
}

// resolveKeys, hedef tablonun JOIN'i için (foreign, parent) kolon listelerini
// relation tipine göre çıkarır. Pivot ve through adımları intermediate.go'dadır.
func resolveKeys(s *step) ([]database.Column, []database.Column, error) {
	switch r := s.relation.(type) {
	case *orm.MorphToRelation:
		return nil, nil, &UnjoinableRelationError{Model: s.parent.Name, Segment: s.segment, Kind: r.Kind()}

	case *orm.HasOneOrMany:
		return qualify(s.relatedQ, r.ForeignKeys), qualify(s.parentQ, r.LocalKeys), nil

	case *orm.MorphOneOrMany:
		return qualify(s.relatedQ, r.ForeignKeys), qualify(s.parentQ, r.LocalKeys), nil

	case *orm.BelongsToRelation:
		return qualify(s.parentQ, r.ForeignKeys), qualify(s.relatedQ, r.OwnerKeys), nil

	case *orm.BelongsToManyRelation:
		return qualify(r.Pivot, r.RelatedPivotKeys), qualify(s.relatedQ, r.RelatedKeys), nil

	case *orm.MorphToManyRelation:
		return qualify(r.Pivot, r.RelatedPivotKeys), qualify(s.relatedQ, r.RelatedKeys), nil

	case *orm.HasManyThroughRelation:
		throughQ := s.aliases.model(r.Through)
		return qualify(s.relatedQ, r.SecondKeys), qualify(throughQ, r.SecondLocalKeys), nil

	default:
		return nil, nil, &UnsupportedRelationKindError{
			Model:   s.parent.Name,
			Segment: s.segment,
			Type:    fmt.Sprintf("%T", s.relation),
		}
	}
}
