// -----------------------------------------------------------------------------
// Database Types - SQL Builder İçin Yardımcı Tipler
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder'ın kullandığı değer tiplerini içerir. OrderClause,
// WhereClause ve JoinClause gibi yapılar burada tanımlanır. Tüm yapılar düz
// değerdir (value type); karşılaştırma ve kopyalama açıkça yapılır.
// -----------------------------------------------------------------------------

package database

import (
	"reflect"
	"strings"
)

// OrderDirection, ORDER BY için izin verilen yönleri temsil eder.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// OrderClause, bir ORDER BY ifadesini temsil eder.
//
//	OrderClause{Column: "created_at", Direction: OrderDesc}
//	→ SQL: ORDER BY `created_at` DESC
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// WhereClause, bir WHERE koşulunu temsil eder.
// Value her zaman placeholder ile bağlanır.
type WhereClause struct {
	Column   string
	Operator string
	Value    interface{}
	Boolean  string // "AND" veya "OR"
}

// JoinType, JOIN tiplerini temsil eden enum-like yapıdır.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
)

// Valid, tipin desteklenen JOIN tiplerinden biri olup olmadığını söyler.
func (t JoinType) Valid() bool {
	switch t {
	case InnerJoin, LeftJoin, RightJoin:
		return true
	}
	return false
}

// Column, tablo (veya alias) ile nitelenmiş bir kolon referansıdır.
// Table boşsa kolon niteliksiz (unqualified) yazılır.
type Column struct {
	Table string `json:"table,omitempty"`
	Name  string `json:"name"`
}

// Col, "table.column" veya "column" string'inden Column üretir.
func Col(ref string) Column {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return Column{Table: ref[:i], Name: ref[i+1:]}
	}
	return Column{Name: ref}
}

// String, "table.column" formatını döner.
func (c Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// JoinCondition, ON ifadesindeki tek bir kolon-kolon eşitliğidir.
type JoinCondition struct {
	First    Column `json:"first"`
	Operator string `json:"operator"`
	Second   Column `json:"second"`
}

// JoinPredicate, ON ifadesine AND ile eklenen kolon-değer koşuludur.
//
// Operator "IS" ve Value nil ise `col IS NULL` üretilir; diğer durumlarda
// Value placeholder ile bağlanır.
type JoinPredicate struct {
	Column   Column      `json:"column"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// IsNull, predicate'in NULL kontrolü olup olmadığını söyler.
func (p JoinPredicate) IsNull() bool {
	return strings.ToUpper(p.Operator) == "IS" && p.Value == nil
}

// JoinClause, tek bir JOIN ifadesini temsil eder.
//
// Alanlar:
//   - Type: JOIN tipi (INNER, LEFT, RIGHT)
//   - Table: JOIN yapılacak tablo adı
//   - Alias: Tablonun sorgu içindeki takma adı (opsiyonel)
//   - Conditions: Sıralı ON eşitlikleri (composite key'lerde birden fazla)
//   - Predicates: Soft delete ve morph type gibi ek koşullar
//
// Örnek:
//
//	JoinClause{
//	    Type:  LeftJoin,
//	    Table: "tickets",
//	    Conditions: []JoinCondition{
//	        {First: Col("tickets.event_id"), Operator: "=", Second: Col("events.id")},
//	    },
//	}
//	→ SQL: LEFT JOIN `tickets` ON `tickets`.`event_id` = `events`.`id`
type JoinClause struct {
	Type       JoinType        `json:"type"`
	Table      string          `json:"table"`
	Alias      string          `json:"alias,omitempty"`
	Conditions []JoinCondition `json:"conditions"`
	Predicates []JoinPredicate `json:"predicates,omitempty"`
}

// Reference, JOIN edilen tabloya sorgu içinde hangi isimle erişildiğini döner.
func (j JoinClause) Reference() string {
	if j.Alias != "" {
		return j.Alias
	}
	return j.Table
}

// Equal, iki JOIN'in yapısal olarak aynı olup olmadığını kontrol eder.
// Tip, tablo, alias, ON koşulları ve predicate'ler sırasıyla karşılaştırılır.
func (j JoinClause) Equal(other JoinClause) bool {
	if j.Type != other.Type || j.Table != other.Table || j.Alias != other.Alias {
		return false
	}
	if len(j.Conditions) != len(other.Conditions) || len(j.Predicates) != len(other.Predicates) {
		return false
	}
	for i, c := range j.Conditions {
		if c != other.Conditions[i] {
			return false
		}
	}
	for i, p := range j.Predicates {
		o := other.Predicates[i]
		if p.Column != o.Column || p.Operator != o.Operator || !reflect.DeepEqual(p.Value, o.Value) {
			return false
		}
	}
	return true
}

// Clone, slice'ları paylaşmayan bir kopya döner.
func (j JoinClause) Clone() JoinClause {
	out := j
	out.Conditions = append([]JoinCondition(nil), j.Conditions...)
	if j.Predicates != nil {
		out.Predicates = append([]JoinPredicate(nil), j.Predicates...)
	}
	return out
}
