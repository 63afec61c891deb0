package relations

import (
	"errors"
	"fmt"

	"github.com/ceopag/eloquence-base/pkg/orm"
)

var (
	// ErrUnjoinable, tek bir hedef tablosu olmayan relation (MorphTo) join'lenmek istendiğinde.
	ErrUnjoinable = errors.New("relations: relation cannot be joined")
	// ErrUnsupportedKind, key resolver'ın tanımadığı bir relation tipi geldiğinde.
	ErrUnsupportedKind = errors.New("relations: unsupported relation kind")
	// ErrInvalidJoinType, INNER/LEFT/RIGHT dışında bir join tipi verildiğinde.
	ErrInvalidJoinType = errors.New("relations: invalid join type")
)

// UnjoinableRelationError, path'teki bir segment MorphTo relation'a denk geldiğinde döner.
type UnjoinableRelationError struct {
	Model   string
	Segment string
	Kind    orm.Kind
}

func (e *UnjoinableRelationError) Error() string {
	return fmt.Sprintf("relations: %s.%s is a %s relation and has no single table to join",
		e.Model, e.Segment, e.Kind)
}

func (e *UnjoinableRelationError) Is(target error) bool { return target == ErrUnjoinable }

// UnsupportedRelationKindError, descriptor bilinen relation tiplerinden biri değilse döner.
// Mapping katmanındaki bir hatayı gösterir.
type UnsupportedRelationKindError struct {
	Model   string
	Segment string
	Type    string
}

func (e *UnsupportedRelationKindError) Error() string {
	return fmt.Sprintf("relations: %s.%s has unsupported relation type %s", e.Model, e.Segment, e.Type)
}

func (e *UnsupportedRelationKindError) Is(target error) bool { return target == ErrUnsupportedKind }
