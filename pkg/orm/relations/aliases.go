// -----------------------------------------------------------------------------
// Aliases
// -----------------------------------------------------------------------------
// Join planlaması sırasında kullanılan tablo takma adları. Değer tipidir ve
// değiştirilemez: With* metodları yeni bir kopya döner, orijinale dokunmaz.
//
//	aliases := relations.Aliases{}.
//	    WithSelf("e").
//	    WithSegment("orders", "orders_alt").
//	    WithModel("Venue", "v")
// -----------------------------------------------------------------------------

package relations

import (
	"sort"
	"strings"

	"github.com/huandu/go-clone"
	"github.com/samber/lo"

	"github.com/ceopag/eloquence-base/pkg/orm"
)

// Aliases, root modelin kendi alias'ını, relation segmentlerine ve modellere
// verilen alias'ları tutar. Sıfır değeri alias'sız planlama demektir.
type Aliases struct {
	self     string
	segments map[string]string
	models   map[string]string
}

// WithSelf, root modelin sorgudaki alias'ını belirler.
func (a Aliases) WithSelf(alias string) Aliases {
	out := a.copy()
	out.self = alias
	return out
}

// WithSegment, bir relation segmentine alias verir. Segment ya çıplak isim
// ("orders") ya da tam path önekidir ("users.orders"); tam önek önce aranır.
func (a Aliases) WithSegment(segment, alias string) Aliases {
	out := a.copy()
	if out.segments == nil {
		out.segments = make(map[string]string)
	}
	out.segments[segment] = alias
	return out
}

// WithModel, bir modele (hangi path'ten ulaşılırsa ulaşılsın) alias verir.
// Alias, modelin path'teki her geçişine uygulanır; aynı model bir path'te iki
// kez yer alıyorsa ikinci geçiş WithSegment ile ayrı bir alias almalıdır.
func (a Aliases) WithModel(model, alias string) Aliases {
	out := a.copy()
	if out.models == nil {
		out.models = make(map[string]string)
	}
	out.models[model] = alias
	return out
}

// Self, root alias'ını döner.
func (a Aliases) Self() string { return a.self }

// Segment, segment alias'ını döner.
func (a Aliases) Segment(segment string) (string, bool) {
	alias, ok := a.segments[segment]
	return alias, ok && alias != ""
}

// Model, model alias'ını döner.
func (a Aliases) Model(name string) (string, bool) {
	alias, ok := a.models[name]
	return alias, ok && alias != ""
}

// IsZero, hiç alias tanımlı değilse true döner.
func (a Aliases) IsZero() bool {
	return a.self == "" && len(a.segments) == 0 && len(a.models) == 0
}

// Fingerprint, alias setini temsil eden kararlı bir string döner. Plan
// cache key'lerinde kullanılır; boş set için "".
//
//	self=e;segment:orders=orders_alt;model:Venue=v
func (a Aliases) Fingerprint() string {
	if a.IsZero() {
		return ""
	}
	parts := []string{"self=" + a.self}
	parts = append(parts, sortedPairs("segment", a.segments)...)
	parts = append(parts, sortedPairs("model", a.models)...)
	return strings.Join(parts, ";")
}

func sortedPairs(prefix string, m map[string]string) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) string {
		return prefix + ":" + k + "=" + m[k]
	})
}

func (a Aliases) copy() Aliases {
	out := Aliases{self: a.self}
	if a.segments != nil {
		out.segments = clone.Clone(a.segments).(map[string]string)
	}
	if a.models != nil {
		out.models = clone.Clone(a.models).(map[string]string)
	}
	return out
}

// Root, root modelin sorgudaki niteleyicisi: self alias, model alias veya
// tablo adı. FROM tablosu bu değerle alias'lanmalıdır.
//
//	qb.As(aliases.Root(models.Event))
func (a Aliases) Root(m *orm.Model) string {
	if a.self != "" {
		return a.self
	}
	if alias, ok := a.Model(m.Name); ok {
		return alias
	}
	return m.Table
}

// related, path ile ulaşılan modelin niteleyicisi: önce tam path öneki, sonra
// çıplak segment, sonra model alias'ı, yoksa tablo adı.
func (a Aliases) related(path, segment string, m *orm.Model) string {
	if alias, ok := a.Segment(path); ok {
		return alias
	}
	if alias, ok := a.Segment(segment); ok {
		return alias
	}
	if alias, ok := a.Model(m.Name); ok {
		return alias
	}
	return m.Table
}

// model, pivot/through gibi ara modellerin niteleyicisi.
func (a Aliases) model(m *orm.Model) string {
	if alias, ok := a.Model(m.Name); ok {
		return alias
	}
	return m.Table
}
