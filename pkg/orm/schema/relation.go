package schema

import (
	"github.com/pkg/errors"

	"github.com/ceopag/eloquence-base/pkg/orm"
)

func buildRelation(registry *orm.Registry, parent *orm.Model, rs RelationSpec) (orm.Relation, error) {
	kind, ok := orm.ParseKind(rs.Kind)
	if !ok {
		return nil, errors.Errorf("unknown relation kind %q", rs.Kind)
	}

	if kind == orm.KindMorphTo {
		if rs.Morph == "" {
			return nil, errors.New("morphTo requires a morph name")
		}
		return orm.MorphTo(parent, rs.Morph, keyOptions(rs)...), nil
	}

	related, err := registry.Model(rs.Related)
	if err != nil {
		return nil, err
	}
	opts := keyOptions(rs)

	switch kind {
	case orm.KindHasOne:
		return orm.HasOne(parent, related, opts...), nil
	case orm.KindHasMany:
		return orm.HasMany(parent, related, opts...), nil
	case orm.KindBelongsTo:
		return orm.BelongsTo(parent, related, opts...), nil
	case orm.KindBelongsToMany:
		return orm.BelongsToMany(parent, related, opts...), nil
	case orm.KindHasOneThrough, orm.KindHasManyThrough:
		through, err := registry.Model(rs.Through)
		if err != nil {
			return nil, errors.Wrap(err, "through")
		}
		if kind == orm.KindHasOneThrough {
			return orm.HasOneThrough(parent, related, through, opts...), nil
		}
		return orm.HasManyThrough(parent, related, through, opts...), nil
	}

	if rs.Morph == "" {
		return nil, errors.Errorf("%s requires a morph name", kind)
	}
	switch kind {
	case orm.KindMorphOne:
		return orm.MorphOne(parent, related, rs.Morph, opts...), nil
	case orm.KindMorphMany:
		return orm.MorphMany(parent, related, rs.Morph, opts...), nil
	case orm.KindMorphToMany:
		return orm.MorphToMany(parent, related, rs.Morph, opts...), nil
	case orm.KindMorphedByMany:
		return orm.MorphedByMany(parent, related, rs.Morph, opts...), nil
	}
	return nil, errors.Errorf("relation kind %q is not supported by the schema loader", kind)
}

func keyOptions(rs RelationSpec) []orm.KeyOption {
	var opts []orm.KeyOption
	add := func(cols Columns, opt func(...string) orm.KeyOption) {
		if len(cols) > 0 {
			opts = append(opts, opt(cols...))
		}
	}
	add(rs.ForeignKey, orm.ForeignKey)
	add(rs.LocalKey, orm.LocalKey)
	add(rs.OwnerKey, orm.OwnerKey)
	add(rs.ForeignPivotKey, orm.ForeignPivotKey)
	add(rs.RelatedPivotKey, orm.RelatedPivotKey)
	add(rs.ParentKey, orm.ParentKey)
	add(rs.RelatedKey, orm.RelatedKey)
	add(rs.FirstKey, orm.FirstKey)
	add(rs.SecondKey, orm.SecondKey)
	add(rs.SecondLocalKey, orm.SecondLocalKey)

	if rs.Pivot != "" {
		opts = append(opts, orm.PivotTable(rs.Pivot))
	}
	if rs.MorphType != "" {
		opts = append(opts, orm.MorphType(rs.MorphType))
	}
	if rs.MorphClass != nil {
		opts = append(opts, orm.MorphClass(*rs.MorphClass))
	}
	return opts
}
