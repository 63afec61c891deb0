package orm

import (
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
	"github.com/samber/lo"
)

// TableName, model adından varsayılan tablo adını üretir: "TicketType" → "ticket_types".
func TableName(modelName string) string {
	return inflection.Plural(strcase.ToSnake(modelName))
}

// snakeSingular, "Venues" → "venue".
func snakeSingular(modelName string) string {
	return strcase.ToSnake(inflection.Singular(modelName))
}

// ForeignKeysFor, başka bir tabloda bu modeli gösteren varsayılan foreign key
// kolonlarını döner: User{id} → ["user_id"].
func ForeignKeysFor(m *Model) []string {
	prefix := snakeSingular(m.Name)
	return lo.Map(m.Keys, func(key string, _ int) string {
		return prefix + "_" + key
	})
}

// PivotTableName, iki model için varsayılan pivot tablo adını üretir.
// İsimler alfabetik sıralanır: (User, Role) → "role_user".
func PivotTableName(a, b *Model) string {
	names := []string{snakeSingular(a.Name), snakeSingular(b.Name)}
	sort.Strings(names)
	return strings.Join(names, "_")
}

// morphColumns, morph adından tip ve id kolonlarını üretir: "imageable" →
// ("imageable_type", "imageable_id").
func morphColumns(name string) (string, string) {
	return name + "_type", name + "_id"
}
