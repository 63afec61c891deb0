// -----------------------------------------------------------------------------
// Schema Loader
// -----------------------------------------------------------------------------
// Model ve relation tanımlarını YAML dosyasından okuyup bir orm.Registry
// kurar. Kod ile Define çağrılarının yaptığı işin aynısını yapar; boş
// bırakılan key'ler constructor'ların varsayılanlarını alır.
//
//	models:
//	  - name: Event
//	    softDeletes: true
//	    relations:
//	      - name: venue
//	        kind: belongsTo
//	        related: Venue
//	      - name: tags
//	        kind: morphToMany
//	        related: Tag
//	        morph: taggable
//
// Dosya iki geçişte işlenir: önce tüm modeller, sonra relation'lar. Böylece
// relation'lar dosyada sonra tanımlanan modellere de referans verebilir.
// -----------------------------------------------------------------------------

package schema

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ceopag/eloquence-base/pkg/orm"
)

// File, schema dosyasının kök yapısı.
type File struct {
	Models []ModelSpec `yaml:"models"`
}

// ModelSpec, tek bir model tanımı.
type ModelSpec struct {
	Name        string         `yaml:"name"`
	Table       string         `yaml:"table"`
	Keys        Columns        `yaml:"keys"`
	MorphClass  string         `yaml:"morphClass"`
	SoftDeletes bool           `yaml:"softDeletes"`
	DeletedAt   string         `yaml:"deletedAt"`
	Relations   []RelationSpec `yaml:"relations"`
}

// RelationSpec, tek bir relation tanımı. Kind'a göre gerekli alanlar değişir.
type RelationSpec struct {
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind"`
	Related         string  `yaml:"related"`
	Through         string  `yaml:"through"`
	Morph           string  `yaml:"morph"`
	Pivot           string  `yaml:"pivot"`
	ForeignKey      Columns `yaml:"foreignKey"`
	LocalKey        Columns `yaml:"localKey"`
	OwnerKey        Columns `yaml:"ownerKey"`
	ForeignPivotKey Columns `yaml:"foreignPivotKey"`
	RelatedPivotKey Columns `yaml:"relatedPivotKey"`
	ParentKey       Columns `yaml:"parentKey"`
	RelatedKey      Columns `yaml:"relatedKey"`
	FirstKey        Columns `yaml:"firstKey"`
	SecondKey       Columns `yaml:"secondKey"`
	SecondLocalKey  Columns `yaml:"secondLocalKey"`
	MorphType       string  `yaml:"morphType"`
	MorphClass      *string `yaml:"morphClass"`
}

// Columns, tek bir kolon ("id") veya kolon listesi (["section_id", "number"]) kabul eder.
type Columns []string

// UnmarshalYAML, scalar ve sequence değerlerini Columns'a çevirir.
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = Columns{node.Value}
		return nil
	case yaml.SequenceNode:
		var cols []string
		if err := node.Decode(&cols); err != nil {
			return err
		}
		*c = cols
		return nil
	}
	return errors.Errorf("line %d: expected a column name or a list of column names", node.Line)
}

// Load, dosyayı okur ve registry kurar.
func Load(path string) (*orm.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "schema: read %s", path)
	}
	registry, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "schema: %s", path)
	}
	return registry, nil
}

// Parse, YAML içeriğinden registry kurar. Bilinmeyen alanlar hatadır.
func Parse(data []byte) (*orm.Registry, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "schema: decode")
	}
	return Build(file)
}

// Build, çözümlenmiş schema'dan registry kurar.
func Build(file File) (*orm.Registry, error) {
	registry := orm.NewRegistry()

	for _, spec := range file.Models {
		if err := registry.Register(newModel(spec)); err != nil {
			return nil, errors.Wrapf(err, "schema: model %q", spec.Name)
		}
	}

	for _, spec := range file.Models {
		parent, err := registry.Model(spec.Name)
		if err != nil {
			return nil, err
		}
		for _, rs := range spec.Relations {
			relation, err := buildRelation(registry, parent, rs)
			if err != nil {
				return nil, errors.Wrapf(err, "schema: %s.%s", spec.Name, rs.Name)
			}
			if err := parent.Register(rs.Name, relation); err != nil {
				return nil, errors.Wrapf(err, "schema: %s.%s", spec.Name, rs.Name)
			}
		}
	}
	return registry, nil
}

func newModel(spec ModelSpec) *orm.Model {
	var opts []orm.ModelOption
	if spec.Table != "" {
		opts = append(opts, orm.WithTable(spec.Table))
	}
	if len(spec.Keys) > 0 {
		opts = append(opts, orm.WithKeys(spec.Keys...))
	}
	if spec.MorphClass != "" {
		opts = append(opts, orm.WithMorphClass(spec.MorphClass))
	}
	if spec.SoftDeletes || spec.DeletedAt != "" {
		opts = append(opts, orm.WithSoftDeletes(spec.DeletedAt))
	}
	return orm.NewModel(spec.Name, opts...)
}
