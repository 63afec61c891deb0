package orm

import (
	"fmt"

	"github.com/samber/lo"
)

// Kind, relation türünü adlandırır.
type Kind string

const (
	KindHasOne         Kind = "hasOne"
	KindHasMany        Kind = "hasMany"
	KindBelongsTo      Kind = "belongsTo"
	KindBelongsToMany  Kind = "belongsToMany"
	KindMorphTo        Kind = "morphTo"
	KindMorphOne       Kind = "morphOne"
	KindMorphMany      Kind = "morphMany"
	KindMorphToMany    Kind = "morphToMany"
	KindMorphedByMany  Kind = "morphedByMany"
	KindHasOneThrough  Kind = "hasOneThrough"
	KindHasManyThrough Kind = "hasManyThrough"
)

// Relation, iki model arasındaki ilişkinin descriptor'ıdır. Kapalı bir
// küme oluşturur: sadece bu paketteki tipler tarafından uygulanabilir.
//
// Uygulayan tipler: *HasOneOrMany, *BelongsToRelation, *BelongsToManyRelation, *MorphToRelation,
// *MorphOneOrMany, *MorphToManyRelation, *HasManyThroughRelation.
type Relation interface {
	Kind() Kind
	// Parent, relation'ın tanımlandığı model.
	Parent() *Model
	// Related, relation'ın hedef modeli. MorphTo için nil.
	Related() *Model

	validate(name string) error
}

type endpoints struct {
	parent  *Model
	related *Model
}

func (e endpoints) Parent() *Model  { return e.parent }
func (e endpoints) Related() *Model { return e.related }

func pairKeys(relation string, left, right []string) error {
	if len(left) == 0 || len(left) != len(right) {
		return &KeyArityError{Relation: relation, Left: left, Right: right}
	}
	return nil
}

// HasOneOrMany: foreign key related tablodadır (events.venue_id → venues.id).
type HasOneOrMany struct {
	endpoints
	Many        bool
	ForeignKeys []string // related tabloda
	LocalKeys   []string // parent tabloda
}

func (r *HasOneOrMany) Kind() Kind {
	if r.Many {
		return KindHasMany
	}
	return KindHasOne
}

func (r *HasOneOrMany) validate(name string) error {
	return pairKeys(name, r.ForeignKeys, r.LocalKeys)
}

// BelongsToRelation: foreign key parent tablodadır (tickets.event_id → events.id).
type BelongsToRelation struct {
	endpoints
	ForeignKeys []string // parent tabloda
	OwnerKeys   []string // related tabloda
}

func (r *BelongsToRelation) Kind() Kind { return KindBelongsTo }

func (r *BelongsToRelation) validate(name string) error {
	return pairKeys(name, r.ForeignKeys, r.OwnerKeys)
}

// BelongsToManyRelation: pivot tablo üzerinden çoka-çok ilişki.
type BelongsToManyRelation struct {
	endpoints
	Pivot            string
	ForeignPivotKeys []string // pivot'ta, parent'ı gösterir
	RelatedPivotKeys []string // pivot'ta, related'ı gösterir
	ParentKeys       []string
	RelatedKeys      []string
}

func (r *BelongsToManyRelation) Kind() Kind { return KindBelongsToMany }

func (r *BelongsToManyRelation) validate(name string) error {
	if err := pairKeys(name, r.ForeignPivotKeys, r.ParentKeys); err != nil {
		return err
	}
	return pairKeys(name, r.RelatedPivotKeys, r.RelatedKeys)
}

// MorphToRelation: hedef tablo satır bazında değişir; join'lenemez.
type MorphToRelation struct {
	endpoints
	MorphType   string
	ForeignKeys []string
}

func (r *MorphToRelation) Kind() Kind { return KindMorphTo }

func (r *MorphToRelation) validate(string) error { return nil }

// MorphOneOrMany: HasOneOrMany + related tablodaki morph type kolonu.
type MorphOneOrMany struct {
	HasOneOrMany
	MorphType  string
	MorphClass string
}

func (r *MorphOneOrMany) Kind() Kind {
	if r.Many {
		return KindMorphMany
	}
	return KindMorphOne
}

// MorphToManyRelation: BelongsToManyRelation + pivot'taki morph type kolonu. Inverse,
// MorphedByMany tarafını işaretler.
type MorphToManyRelation struct {
	BelongsToManyRelation
	MorphType  string
	MorphClass string
	Inverse    bool
}

func (r *MorphToManyRelation) Kind() Kind {
	if r.Inverse {
		return KindMorphedByMany
	}
	return KindMorphToMany
}

// HasManyThroughRelation: ara (through) model üzerinden uzak ilişki.
// countries → users (FirstKeys: users.country_id) → posts (SecondKeys: posts.user_id)
type HasManyThroughRelation struct {
	endpoints
	Through         *Model
	One             bool
	FirstKeys       []string // through tabloda, parent'ı gösterir
	SecondKeys      []string // related tabloda, through'u gösterir
	LocalKeys       []string // parent tabloda
	SecondLocalKeys []string // through tabloda
}

func (r *HasManyThroughRelation) Kind() Kind {
	if r.One {
		return KindHasOneThrough
	}
	return KindHasManyThrough
}

func (r *HasManyThroughRelation) validate(name string) error {
	if r.Through == nil {
		return fmt.Errorf("orm: relation %q has no through model", name)
	}
	if err := pairKeys(name, r.FirstKeys, r.LocalKeys); err != nil {
		return err
	}
	return pairKeys(name, r.SecondKeys, r.SecondLocalKeys)
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

type keySpec struct {
	foreign       []string
	local         []string
	owner         []string
	pivot         string
	foreignPivot  []string
	relatedPivot  []string
	parentKeys    []string
	relatedKeys   []string
	first         []string
	second        []string
	secondLocal   []string
	morphType     string
	morphClass    string
	morphClassSet bool
}

// KeyOption, constructor'ların varsayılan key adlarını ezer.
type KeyOption func(*keySpec)

func ForeignKey(cols ...string) KeyOption      { return func(s *keySpec) { s.foreign = cols } }
func LocalKey(cols ...string) KeyOption        { return func(s *keySpec) { s.local = cols } }
func OwnerKey(cols ...string) KeyOption        { return func(s *keySpec) { s.owner = cols } }
func PivotTable(table string) KeyOption        { return func(s *keySpec) { s.pivot = table } }
func ForeignPivotKey(cols ...string) KeyOption { return func(s *keySpec) { s.foreignPivot = cols } }
func RelatedPivotKey(cols ...string) KeyOption { return func(s *keySpec) { s.relatedPivot = cols } }
func ParentKey(cols ...string) KeyOption       { return func(s *keySpec) { s.parentKeys = cols } }
func RelatedKey(cols ...string) KeyOption      { return func(s *keySpec) { s.relatedKeys = cols } }
func FirstKey(cols ...string) KeyOption        { return func(s *keySpec) { s.first = cols } }
func SecondKey(cols ...string) KeyOption       { return func(s *keySpec) { s.second = cols } }
func SecondLocalKey(cols ...string) KeyOption  { return func(s *keySpec) { s.secondLocal = cols } }
func MorphType(col string) KeyOption           { return func(s *keySpec) { s.morphType = col } }

// MorphClass, polymorphic relation'ın eşleştireceği ayırt edici değeri ezer.
func MorphClass(value string) KeyOption {
	return func(s *keySpec) {
		s.morphClass = value
		s.morphClassSet = true
	}
}

func specOf(opts []KeyOption) *keySpec {
	s := &keySpec{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func or(cols []string, fallback []string) []string {
	if len(cols) > 0 {
		return append([]string(nil), cols...)
	}
	return append([]string(nil), fallback...)
}

func hasOneOrMany(parent, related *Model, many bool, opts []KeyOption) *HasOneOrMany {
	s := specOf(opts)
	return &HasOneOrMany{
		endpoints:   endpoints{parent: parent, related: related},
		Many:        many,
		ForeignKeys: or(s.foreign, ForeignKeysFor(parent)),
		LocalKeys:   or(s.local, parent.Keys),
	}
}

// HasOne: venue.Define("address", orm.HasOne(venue, address)) → addresses.venue_id = venues.id
func HasOne(parent, related *Model, opts ...KeyOption) *HasOneOrMany {
	return hasOneOrMany(parent, related, false, opts)
}

// HasMany: venue.Define("sections", orm.HasMany(venue, section)) → sections.venue_id = venues.id
func HasMany(parent, related *Model, opts ...KeyOption) *HasOneOrMany {
	return hasOneOrMany(parent, related, true, opts)
}

// BelongsTo: ticket.Define("event", orm.BelongsTo(ticket, event)) → tickets.event_id = events.id
//
// Varsayılan foreign key related modelin adından türetilir.
func BelongsTo(parent, related *Model, opts ...KeyOption) *BelongsToRelation {
	s := specOf(opts)
	return &BelongsToRelation{
		endpoints:   endpoints{parent: parent, related: related},
		ForeignKeys: or(s.foreign, ForeignKeysFor(related)),
		OwnerKeys:   or(s.owner, related.Keys),
	}
}

func belongsToMany(parent, related *Model, s *keySpec) BelongsToManyRelation {
	pivot := s.pivot
	if pivot == "" {
		pivot = PivotTableName(parent, related)
	}
	return BelongsToManyRelation{
		endpoints:        endpoints{parent: parent, related: related},
		Pivot:            pivot,
		ForeignPivotKeys: or(s.foreignPivot, ForeignKeysFor(parent)),
		RelatedPivotKeys: or(s.relatedPivot, ForeignKeysFor(related)),
		ParentKeys:       or(s.parentKeys, parent.Keys),
		RelatedKeys:      or(s.relatedKeys, related.Keys),
	}
}

// BelongsToMany: user.Define("roles", orm.BelongsToMany(user, role)) → pivot "role_user".
func BelongsToMany(parent, related *Model, opts ...KeyOption) *BelongsToManyRelation {
	r := belongsToMany(parent, related, specOf(opts))
	return &r
}

// MorphTo, "imageable" gibi bir morph adıyla tanımlanır; imageable_type ve
// imageable_id kolonları parent tablodadır.
func MorphTo(parent *Model, name string, opts ...KeyOption) *MorphToRelation {
	s := specOf(opts)
	morphType, morphID := morphColumns(name)
	if s.morphType != "" {
		morphType = s.morphType
	}
	return &MorphToRelation{
		endpoints:   endpoints{parent: parent},
		MorphType:   morphType,
		ForeignKeys: or(s.foreign, []string{morphID}),
	}
}

func morphOneOrMany(parent, related *Model, name string, many bool, opts []KeyOption) *MorphOneOrMany {
	s := specOf(opts)
	morphType, morphID := morphColumns(name)
	if s.morphType != "" {
		morphType = s.morphType
	}
	class := parent.MorphClass
	if s.morphClassSet {
		class = s.morphClass
	}
	return &MorphOneOrMany{
		HasOneOrMany: HasOneOrMany{
			endpoints:   endpoints{parent: parent, related: related},
			Many:        many,
			ForeignKeys: or(s.foreign, []string{morphID}),
			LocalKeys:   or(s.local, parent.Keys),
		},
		MorphType:  morphType,
		MorphClass: class,
	}
}

// MorphOne: event.Define("cover", orm.MorphOne(event, image, "imageable"))
// → images.imageable_id = events.id AND images.imageable_type = "Event"
func MorphOne(parent, related *Model, name string, opts ...KeyOption) *MorphOneOrMany {
	return morphOneOrMany(parent, related, name, false, opts)
}

// MorphMany: event.Define("comments", orm.MorphMany(event, comment, "commentable"))
func MorphMany(parent, related *Model, name string, opts ...KeyOption) *MorphOneOrMany {
	return morphOneOrMany(parent, related, name, true, opts)
}

// MorphToMany: event.Define("tags", orm.MorphToMany(event, tag, "taggable"))
// → pivot "taggables" (taggable_id, tag_id, taggable_type)
func MorphToMany(parent, related *Model, name string, opts ...KeyOption) *MorphToManyRelation {
	s := specOf(opts)
	morphType, morphID := morphColumns(name)
	if s.pivot == "" {
		s.pivot = TableName(name)
	}
	if len(s.foreignPivot) == 0 {
		s.foreignPivot = []string{morphID}
	}
	return morphToMany(parent, related, morphType, parent.MorphClass, false, s)
}

// MorphedByMany, MorphToMany'nin ters tarafı:
// tag.Define("events", orm.MorphedByMany(tag, event, "taggable", orm.MorphClass("Event")))
//
// Varsayılan morph class, MorphToMany'de olduğu gibi parent modelinkidir;
// pivot'taki değer farklıysa MorphClass ile ezilir.
func MorphedByMany(parent, related *Model, name string, opts ...KeyOption) *MorphToManyRelation {
	s := specOf(opts)
	morphType, morphID := morphColumns(name)
	if s.pivot == "" {
		s.pivot = TableName(name)
	}
	if len(s.relatedPivot) == 0 {
		s.relatedPivot = []string{morphID}
	}
	return morphToMany(parent, related, morphType, parent.MorphClass, true, s)
}

func morphToMany(parent, related *Model, morphType, class string, inverse bool, s *keySpec) *MorphToManyRelation {
	if s.morphType != "" {
		morphType = s.morphType
	}
	if s.morphClassSet {
		class = s.morphClass
	}
	return &MorphToManyRelation{
		BelongsToManyRelation: belongsToMany(parent, related, s),
		MorphType:             morphType,
		MorphClass:            class,
		Inverse:               inverse,
	}
}

func hasManyThrough(parent, related, through *Model, one bool, opts []KeyOption) *HasManyThroughRelation {
	s := specOf(opts)
	return &HasManyThroughRelation{
		endpoints:       endpoints{parent: parent, related: related},
		Through:         through,
		One:             one,
		FirstKeys:       or(s.first, ForeignKeysFor(parent)),
		SecondKeys:      or(s.second, ForeignKeysFor(through)),
		LocalKeys:       or(s.local, parent.Keys),
		SecondLocalKeys: or(s.secondLocal, through.Keys),
	}
}

// HasManyThrough: venue.Define("events", orm.HasManyThrough(venue, event, section))
// → sections.venue_id = venues.id, events.section_id = sections.id
func HasManyThrough(parent, related, through *Model, opts ...KeyOption) *HasManyThroughRelation {
	return hasManyThrough(parent, related, through, false, opts)
}

// HasOneThrough, HasManyThrough ile aynı join'leri üretir.
func HasOneThrough(parent, related, through *Model, opts ...KeyOption) *HasManyThroughRelation {
	return hasManyThrough(parent, related, through, true, opts)
}

// Kinds, bilinen tüm relation türlerini döner.
func Kinds() []Kind {
	return []Kind{
		KindHasOne, KindHasMany, KindBelongsTo, KindBelongsToMany, KindMorphTo,
		KindMorphOne, KindMorphMany, KindMorphToMany, KindMorphedByMany,
		KindHasOneThrough, KindHasManyThrough,
	}
}

// ParseKind, schema dosyalarındaki tür adını Kind'a çevirir.
func ParseKind(value string) (Kind, bool) {
	return lo.Find(Kinds(), func(k Kind) bool { return string(k) == value })
}
