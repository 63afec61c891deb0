// -----------------------------------------------------------------------------
// Model
// -----------------------------------------------------------------------------
// Model, bir entity'nin join planlaması için gereken metadata'sını tutar:
// tablo adı, (composite olabilen) primary key, morph class, soft delete
// kolonu ve isimden relation descriptor'a giden açık bir registry.
//
// Relation'lar Define ile bildirimsel olarak kaydedilir; çalışma zamanında
// metod çağrısıyla keşfedilmez.
// -----------------------------------------------------------------------------

package orm

import (
	"fmt"
	"sync"

	"github.com/ceopag/eloquence-base/pkg/database"
)

// DefaultDeletedAtColumn, soft delete için varsayılan kolon adı.
const DefaultDeletedAtColumn = "deleted_at"

type Model struct {
	Name       string
	Table      string
	Keys       []string
	MorphClass string
	DeletedAt  string // boşsa soft delete yok

	mu        sync.RWMutex
	relations map[string]Relation
	order     []string
}

// ModelOption, NewModel'e verilen ayar fonksiyonu.
type ModelOption func(*Model)

// WithTable, varsayılan (snake_case çoğul) tablo adını değiştirir.
func WithTable(table string) ModelOption {
	return func(m *Model) { m.Table = table }
}

// WithKeys, primary key kolonlarını belirler. Birden fazla kolon composite key demektir.
func WithKeys(keys ...string) ModelOption {
	return func(m *Model) { m.Keys = append([]string(nil), keys...) }
}

// WithMorphClass, polymorphic relation'larda yazılan ayırt edici değeri belirler.
func WithMorphClass(class string) ModelOption {
	return func(m *Model) { m.MorphClass = class }
}

// WithSoftDeletes, soft delete'i açar. Kolon verilmezse "deleted_at" kullanılır.
func WithSoftDeletes(column ...string) ModelOption {
	return func(m *Model) {
		m.DeletedAt = DefaultDeletedAtColumn
		if len(column) > 0 && column[0] != "" {
			m.DeletedAt = column[0]
		}
	}
}

// NewModel, yeni bir model tanımı oluşturur.
//
// Örnek:
//
//	event := orm.NewModel("Event", orm.WithSoftDeletes())
//	// Table: "events", Keys: ["id"], MorphClass: "Event"
func NewModel(name string, opts ...ModelOption) *Model {
	m := &Model{
		Name:       name,
		Table:      TableName(name),
		Keys:       []string{"id"},
		MorphClass: name,
		relations:  make(map[string]Relation),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SoftDeletes, modelin soft delete kullanıp kullanmadığını söyler.
func (m *Model) SoftDeletes() bool {
	return m.DeletedAt != ""
}

// Column, modelin tablosuyla nitelenmiş kolon referansı döner.
func (m *Model) Column(name string) database.Column {
	return database.Column{Table: m.Table, Name: name}
}

// Register, relation'ı verilen isimle kaydeder. İsim boşsa, relation'ın
// parent'ı bu model değilse, aynı isimde relation varsa veya key'ler
// eşleşmiyorsa error döner.
func (m *Model) Register(name string, r Relation) error {
	if name == "" {
		return fmt.Errorf("orm: model %s: empty relation name", m.Name)
	}
	if r == nil {
		return fmt.Errorf("orm: model %s: relation %q is nil", m.Name, name)
	}
	if r.Parent() != m {
		return fmt.Errorf("orm: model %s: relation %q belongs to another model", m.Name, name)
	}
	if err := r.validate(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.relations[name]; exists {
		return fmt.Errorf("orm: model %s: relation %q already defined", m.Name, name)
	}
	m.relations[name] = r
	m.order = append(m.order, name)
	return nil
}

// Define, Register'ın zincirlenebilir versiyonu. Hata durumunda panic atar;
// model tanımları uygulama başlangıcında yapılır.
//
//	user.Define("reservations", orm.HasMany(user, reservation))
func (m *Model) Define(name string, r Relation) *Model {
	if err := m.Register(name, r); err != nil {
		panic(err)
	}
	return m
}

// Relation, isimle relation descriptor'ını döner. Yoksa *UnknownRelationError.
func (m *Model) Relation(name string) (Relation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.relations[name]
	if !ok {
		return nil, &UnknownRelationError{Model: m.Name, Relation: name}
	}
	return r, nil
}

// Relations, tanımlı relation isimlerini kayıt sırasıyla döner.
func (m *Model) Relations() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}
