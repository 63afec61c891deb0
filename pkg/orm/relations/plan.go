package relations

import (
	"github.com/samber/lo"

	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// Plan, sorguya eklenmeden derlenmiş JOIN listesidir. Cache'lenebilir ve
// sonradan Merge ile bir sorguya uygulanabilir.
type Plan struct {
	Root    string                `json:"root"`
	Path    string                `json:"path"`
	Type    database.JoinType     `json:"type"`
	Related string                `json:"related"`
	Clauses []database.JoinClause `json:"clauses"`

	related *orm.Model
}

// Model, path'in sonunda ulaşılan model. Decode edilmiş bir plan için
// PlanCache tarafından registry'den doldurulur.
func (p *Plan) Model() *orm.Model { return p.related }

// clauseList, Compile'ın kullandığı boş hedef sorgu.
type clauseList struct {
	joins []database.JoinClause
}

func (l *clauseList) Joins() []database.JoinClause        { return l.joins }
func (l *clauseList) AppendJoin(join database.JoinClause) { l.joins = append(l.joins, join.Clone()) }

// Compile, path'i sorguya dokunmadan derler. Dedup sadece planın kendi
// içinde yapılır; sorgudaki mevcut JOIN'ler Merge sırasında elenir.
//
//	plan, err := joiner.Compile("tags", database.InnerJoin)
//	// plan.Clauses: [taggables, tags]
func (j *Joiner) Compile(path string, joinType database.JoinType) (*Plan, error) {
	scratch := &clauseList{}
	related, err := j.walk(scratch, path, joinType)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Root:    j.root.Name,
		Path:    path,
		Type:    joinType,
		Related: related.Name,
		Clauses: scratch.joins,
		related: related,
	}, nil
}

// Merge, planın JOIN'lerini dedup kontrolünden geçirerek sorguya ekler ve
// eklenen JOIN sayısını döner.
func (j *Joiner) Merge(plan *Plan) int {
	clauses := lo.Map(plan.Clauses, func(c database.JoinClause, _ int) database.JoinClause {
		return c.Clone()
	})
	return j.admit(j.query, plan.Path, clauses)
}
