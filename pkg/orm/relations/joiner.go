// -----------------------------------------------------------------------------
// Joiner - Relation Path → JOIN Plan
// -----------------------------------------------------------------------------
// Joiner, "reservations.tickets.seat" gibi noktalı bir relation path'ini
// modellerin tanımlı relation'ları üzerinden yürür ve her segment için gerekli
// JOIN'leri sorguya ekler.
//
// Her segment için:
//  1. Relation, mevcut modelin registry'sinden isimle bulunur
//  2. Pivot/through relation'larda önce ara tablo JOIN'i üretilir
//  3. Hedef tablo JOIN'i key'lerden üretilir
//  4. Soft delete ve morph type predicate'leri eklenir
//  5. Sorguda zaten olan JOIN'ler atlanır, kalanlar sırayla eklenir
//
// Segment atomiktir: hata veren segment hiçbir JOIN eklemez, önceki
// segmentlerin eklediği JOIN'ler sorguda kalır.
//
// Joiner thread-safe değildir; bir sorgu aynı anda tek goroutine'den
// derlenmelidir.
// -----------------------------------------------------------------------------

package relations

import (
	"fmt"
	"strings"

	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/logger"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// Query, JOIN listesini tutan sorgu. *database.QueryBuilder bu interface'i sağlar.
type Query interface {
	Joins() []database.JoinClause
	AppendJoin(join database.JoinClause)
}

// Joiner, bir root model ve hedef sorgu için relation join'lerini derler.
type Joiner struct {
	query   Query
	root    *orm.Model
	aliases Aliases
	logger  *logger.Logger
}

// Option, Joiner ayarı.
type Option func(*Joiner)

// WithAliases, planlamada kullanılacak alias setini belirler.
func WithAliases(aliases Aliases) Option {
	return func(j *Joiner) { j.aliases = aliases }
}

// WithLogger, debug logları için logger belirler.
func WithLogger(log *logger.Logger) Option {
	return func(j *Joiner) {
		if log != nil {
			j.logger = log
		}
	}
}

// NewJoiner, yeni bir Joiner oluşturur.
//
// Örnek:
//
//	qb := database.NewBuilder(db, grammar).Table("events")
//	joiner := relations.NewJoiner(qb, models.Event)
//	venue, err := joiner.Join("venue")
//	// INNER JOIN `venues` ON `events`.`venue_id` = `venues`.`id`
func NewJoiner(query Query, root *orm.Model, opts ...Option) *Joiner {
	j := &Joiner{
		query:  query,
		root:   root,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Root, planlamanın başladığı model.
func (j *Joiner) Root() *orm.Model { return j.root }

// Aliases, Joiner'ın alias seti.
func (j *Joiner) Aliases() Aliases { return j.aliases }

// Join, path'i INNER JOIN ile derler ve son segmentin modelini döner.
func (j *Joiner) Join(path string) (*orm.Model, error) {
	return j.JoinPath(path, database.InnerJoin)
}

// LeftJoin, path'i LEFT JOIN ile derler.
func (j *Joiner) LeftJoin(path string) (*orm.Model, error) {
	return j.JoinPath(path, database.LeftJoin)
}

// RightJoin, path'i RIGHT JOIN ile derler.
func (j *Joiner) RightJoin(path string) (*orm.Model, error) {
	return j.JoinPath(path, database.RightJoin)
}

// JoinPath, path'i verilen tipte derler ve JOIN'leri doğrudan sorguya ekler.
//
// Dönen hatalar:
//   - *orm.UnknownRelationError: segment modelde tanımlı değil (boş segment dahil)
//   - *UnjoinableRelationError: segment bir MorphTo relation
//   - *UnsupportedRelationKindError: descriptor bilinen tiplerden değil
//   - *orm.KeyArityError: composite key kolon sayıları eşleşmiyor
func (j *Joiner) JoinPath(path string, joinType database.JoinType) (*orm.Model, error) {
	return j.walk(j.query, path, joinType)
}

func (j *Joiner) walk(target Query, path string, joinType database.JoinType) (*orm.Model, error) {
	if !joinType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJoinType, joinType)
	}

	current := j.root
	qualifier := j.aliases.Root(current)
	prefix := ""

	for _, segment := range strings.Split(path, ".") {
		if prefix == "" {
			prefix = segment
		} else {
			prefix += "." + segment
		}

		relation, err := current.Relation(segment)
		if err != nil {
			return nil, err
		}

		s := &step{
			parent:   current,
			parentQ:  qualifier,
			segment:  segment,
			path:     prefix,
			relation: relation,
			joinType: joinType,
			aliases:  j.aliases,
		}
		clauses, err := j.segment(s)
		if err != nil {
			return nil, err
		}
		j.admit(target, prefix, clauses)

		current, qualifier = s.related, s.relatedQ
	}
	return current, nil
}

// segment, tek bir segmentin JOIN'lerini sırasıyla üretir; hiçbirini eklemez.
func (j *Joiner) segment(s *step) ([]database.JoinClause, error) {
	s.related = s.relation.Related()
	if s.related != nil {
		s.relatedQ = s.aliases.related(s.path, s.segment, s.related)
	}

	foreign, parent, err := resolveKeys(s)
	if err != nil {
		return nil, err
	}
	if s.related == nil {
		return nil, &UnsupportedRelationKindError{
			Model:   s.parent.Name,
			Segment: s.segment,
			Type:    fmt.Sprintf("%T", s.relation),
		}
	}
	conditions, err := pair(s.segment, foreign, parent)
	if err != nil {
		return nil, err
	}

	var clauses []database.JoinClause
	if hop, ok, err := intermediate(s); err != nil {
		return nil, err
	} else if ok {
		clauses = append(clauses, hop)
	}

	target := database.JoinClause{
		Type:       s.joinType,
		Table:      s.related.Table,
		Conditions: conditions,
	}
	if s.relatedQ != s.related.Table {
		target.Alias = s.relatedQ
	}
	augment(s, &target)

	return append(clauses, target), nil
}
