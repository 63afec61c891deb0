package orm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownRelation, modelde tanımlı olmayan bir relation istendiğinde.
	ErrUnknownRelation = errors.New("orm: unknown relation")
	// ErrUnknownModel, registry'de olmayan bir model istendiğinde.
	ErrUnknownModel = errors.New("orm: unknown model")
	// ErrKeyArity, composite key kolon sayıları eşleşmediğinde.
	ErrKeyArity = errors.New("orm: key arity mismatch")
)

type UnknownRelationError struct {
	Model    string
	Relation string
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("orm: model %s has no relation %q", e.Model, e.Relation)
}

func (e *UnknownRelationError) Is(target error) bool { return target == ErrUnknownRelation }

type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("orm: model %q is not registered", e.Name)
}

func (e *UnknownModelError) Is(target error) bool { return target == ErrUnknownModel }

// KeyArityError, eşleştirilen iki key listesinin uzunlukları farklı olduğunda döner.
type KeyArityError struct {
	Relation string
	Left     []string
	Right    []string
}

func (e *KeyArityError) Error() string {
	return fmt.Sprintf("orm: relation %q pairs %d key column(s) [%s] with %d [%s]",
		e.Relation, len(e.Left), strings.Join(e.Left, ", "), len(e.Right), strings.Join(e.Right, ", "))
}

func (e *KeyArityError) Is(target error) bool { return target == ErrKeyArity }
