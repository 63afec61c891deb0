package relations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/orm"
	"github.com/ceopag/eloquence-base/pkg/orm/relations"
)

type JoinerSuite struct {
	suite.Suite
	s *schema
}

func TestJoinerSuite(t *testing.T) {
	suite.Run(t, new(JoinerSuite))
}

func (st *JoinerSuite) SetupTest() {
	st.s = newSchema()
}

func (st *JoinerSuite) joiner(qb *database.QueryBuilder, root *orm.Model, opts ...relations.Option) *relations.Joiner {
	return relations.NewJoiner(qb, root, append(opts, relations.WithLogger(quietLogger()))...)
}

func (st *JoinerSuite) TestNestedPathInRootToLeafOrder() {
	qb := newQuery("users")

	related, err := st.joiner(qb, st.s.User).Join("reservations.tickets.event")
	st.Require().NoError(err)
	st.Same(st.s.Event, related)

	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "reservations",
			Conditions: []database.JoinCondition{eq("reservations.user_id", "users.id")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "tickets",
			Conditions: []database.JoinCondition{eq("tickets.reservation_id", "reservations.id")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "events",
			Conditions: []database.JoinCondition{eq("tickets.event_id", "events.id")},
			Predicates: []database.JoinPredicate{isNull("events.deleted_at")},
		},
	}, qb.Joins())
}

func (st *JoinerSuite) TestJoinIsIdempotent() {
	qb := newQuery("users")
	j := st.joiner(qb, st.s.User)

	_, err := j.Join("reservations.tickets")
	st.Require().NoError(err)
	st.Len(qb.Joins(), 2)

	_, err = j.Join("reservations.tickets")
	st.Require().NoError(err)
	_, err = j.Join("reservations")
	st.Require().NoError(err)
	st.Len(qb.Joins(), 2)
}

func (st *JoinerSuite) TestDifferentJoinTypeIsNotDuplicate() {
	qb := newQuery("users")
	j := st.joiner(qb, st.s.User)

	_, err := j.Join("reservations")
	st.Require().NoError(err)
	_, err = j.LeftJoin("reservations")
	st.Require().NoError(err)

	joins := qb.Joins()
	st.Require().Len(joins, 2)
	st.Equal(database.InnerJoin, joins[0].Type)
	st.Equal(database.LeftJoin, joins[1].Type)
}

func (st *JoinerSuite) TestBelongsToManyJoinsPivotFirst() {
	qb := newQuery("venues")

	related, err := st.joiner(qb, st.s.Venue).Join("tags")
	st.Require().NoError(err)
	st.Same(st.s.Tag, related)

	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "tag_venue",
			Conditions: []database.JoinCondition{eq("tag_venue.venue_id", "venues.id")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "tags",
			Conditions: []database.JoinCondition{eq("tag_venue.tag_id", "tags.id")},
		},
	}, qb.Joins())
}

func (st *JoinerSuite) TestPivotIsJoinedOnce() {
	qb := newQuery("users")
	j := st.joiner(qb, st.s.User)

	_, err := j.Join("roles")
	st.Require().NoError(err)
	_, err = j.Join("roles")
	st.Require().NoError(err)

	joins := qb.Joins()
	st.Require().Len(joins, 2)
	st.Equal("role_user", joins[0].Table)
	st.Equal([]database.JoinCondition{eq("role_user.user_id", "users.id")}, joins[0].Conditions)
	st.Equal([]database.JoinCondition{eq("role_user.role_id", "roles.id")}, joins[1].Conditions)
}

func (st *JoinerSuite) TestSoftDeletePredicateOnlyForSoftDeletingModels() {
	qb := newQuery("events")
	j := st.joiner(qb, st.s.Event)

	_, err := j.Join("tickets")
	st.Require().NoError(err)
	st.Empty(qb.Joins()[0].Predicates)

	qb = newQuery("tickets")
	_, err = st.joiner(qb, st.s.Ticket).LeftJoin("event")
	st.Require().NoError(err)
	st.Equal([]database.JoinPredicate{isNull("events.deleted_at")}, qb.Joins()[0].Predicates)
}

func (st *JoinerSuite) TestCompositeKeysPairByPosition() {
	qb := newQuery("tickets")

	related, err := st.joiner(qb, st.s.Ticket).Join("seat")
	st.Require().NoError(err)
	st.Same(st.s.Seat, related)

	joins := qb.Joins()
	st.Require().Len(joins, 1)
	st.Equal([]database.JoinCondition{
		eq("tickets.seat_section_id", "seats.section_id"),
		eq("tickets.seat_number", "seats.number"),
	}, joins[0].Conditions)
}

func (st *JoinerSuite) TestMorphToIsUnjoinable() {
	qb := newQuery("images")

	related, err := st.joiner(qb, st.s.Image).Join("imageable")
	st.Nil(related)
	st.ErrorIs(err, relations.ErrUnjoinable)

	var unjoinable *relations.UnjoinableRelationError
	st.Require().ErrorAs(err, &unjoinable)
	st.Equal("Image", unjoinable.Model)
	st.Equal("imageable", unjoinable.Segment)
	st.Equal(orm.KindMorphTo, unjoinable.Kind)
	st.Empty(qb.Joins())
}

func (st *JoinerSuite) TestFailingSegmentKeepsEarlierSegments() {
	qb := newQuery("events")

	_, err := st.joiner(qb, st.s.Event).Join("comments.commentable")
	st.ErrorIs(err, relations.ErrUnjoinable)

	joins := qb.Joins()
	st.Require().Len(joins, 1)
	st.Equal("comments", joins[0].Table)

	_, err = st.joiner(qb, st.s.Event).Join("venue.missing")
	st.ErrorIs(err, orm.ErrUnknownRelation)
	st.Len(qb.Joins(), 2)
}

func (st *JoinerSuite) TestUnknownRelationIsPropagated() {
	qb := newQuery("users")

	_, err := st.joiner(qb, st.s.User).Join("orders")
	var unknown *orm.UnknownRelationError
	st.Require().ErrorAs(err, &unknown)
	st.Equal("User", unknown.Model)
	st.Equal("orders", unknown.Relation)
}

func (st *JoinerSuite) TestEmptySegments() {
	for _, path := range []string{"", "reservations..tickets", "reservations."} {
		_, err := st.joiner(newQuery("users"), st.s.User).Join(path)

		var unknown *orm.UnknownRelationError
		st.Require().ErrorAs(err, &unknown, path)
		st.Equal("", unknown.Relation, path)
	}
}

func (st *JoinerSuite) TestInvalidJoinType() {
	qb := newQuery("users")

	_, err := st.joiner(qb, st.s.User).JoinPath("reservations", database.JoinType("CROSS"))
	st.ErrorIs(err, relations.ErrInvalidJoinType)
	st.Empty(qb.Joins())
}

func (st *JoinerSuite) TestRightJoin() {
	qb := newQuery("reservations")

	related, err := st.joiner(qb, st.s.Reservation).RightJoin("user")
	st.Require().NoError(err)
	st.Same(st.s.User, related)
	st.Equal([]database.JoinClause{{
		Type:       database.RightJoin,
		Table:      "users",
		Conditions: []database.JoinCondition{eq("reservations.user_id", "users.id")},
	}}, qb.Joins())
}

func (st *JoinerSuite) TestMorphOneUsesQualifiedTypeColumn() {
	qb := newQuery("events")

	_, err := st.joiner(qb, st.s.Event).LeftJoin("cover")
	st.Require().NoError(err)
	st.Equal([]database.JoinClause{{
		Type:       database.LeftJoin,
		Table:      "images",
		Conditions: []database.JoinCondition{eq("images.imageable_id", "events.id")},
		Predicates: []database.JoinPredicate{equals("images.imageable_type", "Event")},
	}}, qb.Joins())
}

func (st *JoinerSuite) TestMorphToManyUsesUnqualifiedTypeColumn() {
	qb := newQuery("events")

	_, err := st.joiner(qb, st.s.Event).Join("tags")
	st.Require().NoError(err)
	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "taggables",
			Conditions: []database.JoinCondition{eq("taggables.taggable_id", "events.id")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "tags",
			Conditions: []database.JoinCondition{eq("taggables.tag_id", "tags.id")},
			Predicates: []database.JoinPredicate{equals("taggable_type", "Event")},
		},
	}, qb.Joins())
}

func (st *JoinerSuite) TestMorphedByManyMatchesParentClass() {
	qb := newQuery("tags")

	related, err := st.joiner(qb, st.s.Tag).Join("events")
	st.Require().NoError(err)
	st.Same(st.s.Event, related)
	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "taggables",
			Conditions: []database.JoinCondition{eq("taggables.tag_id", "tags.id")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "events",
			Conditions: []database.JoinCondition{eq("taggables.taggable_id", "events.id")},
			Predicates: []database.JoinPredicate{
				isNull("events.deleted_at"),
				equals("taggable_type", "Tag"),
			},
		},
	}, qb.Joins())

	qb = newQuery("tags")
	_, err = st.joiner(qb, st.s.Tag).Join("taggedEvents")
	st.Require().NoError(err)
	st.Require().Len(qb.Joins(), 2)
	st.Equal([]database.JoinPredicate{
		isNull("events.deleted_at"),
		equals("taggable_type", "Event"),
	}, qb.Joins()[1].Predicates)
}

func (st *JoinerSuite) TestHasManyThroughJoinsThroughTable() {
	qb := newQuery("venues")

	related, err := st.joiner(qb, st.s.Venue).Join("seats")
	st.Require().NoError(err)
	st.Same(st.s.Seat, related)
	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "sections",
			Conditions: []database.JoinCondition{eq("sections.venue_id", "venues.id")},
			Predicates: []database.JoinPredicate{isNull("sections.removed_at")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "seats",
			Conditions: []database.JoinCondition{eq("seats.section_id", "sections.id")},
		},
	}, qb.Joins())
}

func (st *JoinerSuite) TestThroughTableSharedWithDirectRelation() {
	qb := newQuery("venues")
	j := st.joiner(qb, st.s.Venue)

	_, err := j.Join("seats")
	st.Require().NoError(err)
	_, err = j.Join("sections")
	st.Require().NoError(err)

	// sections relation'ı ara JOIN ile aynı clause'u üretir.
	st.Len(qb.Joins(), 2)
}

func (st *JoinerSuite) TestSegmentAlias() {
	qb := newQuery("users")
	aliases := relations.Aliases{}.WithSegment("reservations", "reservations_alt")

	_, err := st.joiner(qb, st.s.User, relations.WithAliases(aliases)).Join("reservations.tickets")
	st.Require().NoError(err)
	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "reservations",
			Alias:      "reservations_alt",
			Conditions: []database.JoinCondition{eq("reservations_alt.user_id", "users.id")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "tickets",
			Conditions: []database.JoinCondition{eq("tickets.reservation_id", "reservations_alt.id")},
		},
	}, qb.Joins())
}

func (st *JoinerSuite) TestSameTableTwiceThroughAliases() {
	qb := newQuery("tickets").As("t")
	aliases := relations.Aliases{}.
		WithSelf("t").
		WithSegment("event.tickets", "siblings")

	_, err := st.joiner(qb, st.s.Ticket, relations.WithAliases(aliases)).Join("event.tickets")
	st.Require().NoError(err)
	st.Equal([]database.JoinClause{
		{
			Type:       database.InnerJoin,
			Table:      "events",
			Conditions: []database.JoinCondition{eq("t.event_id", "events.id")},
			Predicates: []database.JoinPredicate{isNull("events.deleted_at")},
		},
		{
			Type:       database.InnerJoin,
			Table:      "tickets",
			Alias:      "siblings",
			Conditions: []database.JoinCondition{eq("siblings.event_id", "events.id")},
		},
	}, qb.Joins())

	sql, _, err := qb.ToSQL()
	st.Require().NoError(err)
	st.Equal("SELECT * FROM `tickets` AS `t`"+
		" INNER JOIN `events` ON `t`.`event_id` = `events`.`id` AND `events`.`deleted_at` IS NULL"+
		" INNER JOIN `tickets` AS `siblings` ON `siblings`.`event_id` = `events`.`id`", sql)
}

func (st *JoinerSuite) TestModelAliasAppliesToSoftDeleteAndPivot() {
	qb := newQuery("users").As("u")
	aliases := relations.Aliases{}.WithSelf("u").WithModel("Event", "e")

	_, err := st.joiner(qb, st.s.User, relations.WithAliases(aliases)).Join("reservations.tickets.event")
	st.Require().NoError(err)
	joins := qb.Joins()
	st.Require().Len(joins, 3)
	st.Equal([]database.JoinCondition{eq("reservations.user_id", "u.id")}, joins[0].Conditions)
	st.Equal("e", joins[2].Alias)
	st.Equal([]database.JoinCondition{eq("tickets.event_id", "e.id")}, joins[2].Conditions)
	st.Equal([]database.JoinPredicate{isNull("e.deleted_at")}, joins[2].Predicates)

	qb = newQuery("users").As("u")
	_, err = st.joiner(qb, st.s.User, relations.WithAliases(aliases)).Join("roles")
	st.Require().NoError(err)
	st.Equal([]database.JoinCondition{eq("role_user.user_id", "u.id")}, qb.Joins()[0].Conditions)
}

// customRelation, bilinen tiplerden birini gömen ama kendisi farklı bir tip olan relation.
type customRelation struct {
	*orm.BelongsToRelation
}

func (st *JoinerSuite) TestSegmentAliasSeparatesRepeatedModel() {
	aliases := relations.Aliases{}.WithModel("Venue", "v").WithSegment("events.venue", "home")
	qb := newQuery("venues").As(aliases.Root(st.s.Venue))

	_, err := st.joiner(qb, st.s.Venue, relations.WithAliases(aliases)).Join("events.venue")
	st.Require().NoError(err)

	joins := qb.Joins()
	st.Require().Len(joins, 2)
	st.Equal([]database.JoinCondition{eq("events.venue_id", "v.id")}, joins[0].Conditions)
	st.Equal("home", joins[1].Alias)
	st.Equal([]database.JoinCondition{eq("events.venue_id", "home.id")}, joins[1].Conditions)
}

func (st *JoinerSuite) TestUnsupportedRelationKind() {
	st.Require().NoError(st.s.Ticket.Register("custom", customRelation{orm.BelongsTo(st.s.Ticket, st.s.Event)}))
	qb := newQuery("tickets")

	_, err := st.joiner(qb, st.s.Ticket).Join("custom")
	st.ErrorIs(err, relations.ErrUnsupportedKind)

	var unsupported *relations.UnsupportedRelationKindError
	st.Require().ErrorAs(err, &unsupported)
	st.Equal("custom", unsupported.Segment)
	st.Contains(unsupported.Type, "customRelation")
	st.Empty(qb.Joins())
}

func (st *JoinerSuite) TestKeyArityMismatch() {
	r := orm.HasMany(st.s.Venue, st.s.Event, orm.ForeignKey("host_venue_id"))
	st.s.Venue.Define("hosted", r)
	r.LocalKeys = []string{"id", "tenant_id"}

	qb := newQuery("venues")
	_, err := st.joiner(qb, st.s.Venue).Join("hosted")
	st.ErrorIs(err, orm.ErrKeyArity)
	st.Empty(qb.Joins())
}

func (st *JoinerSuite) TestPivotArityMismatchAppendsNothing() {
	r := orm.BelongsToMany(st.s.Venue, st.s.User, orm.PivotTable("venue_managers"))
	st.s.Venue.Define("managers", r)
	r.ForeignPivotKeys = []string{"venue_id", "tenant_id"}

	qb := newQuery("venues")
	_, err := st.joiner(qb, st.s.Venue).Join("managers")
	st.ErrorIs(err, orm.ErrKeyArity)
	st.Empty(qb.Joins())
}

func (st *JoinerSuite) TestCompileDoesNotTouchQuery() {
	qb := newQuery("venues")
	j := st.joiner(qb, st.s.Venue)

	plan, err := j.Compile("events.tags", database.LeftJoin)
	st.Require().NoError(err)
	st.Empty(qb.Joins())
	st.Equal("Venue", plan.Root)
	st.Equal("Tag", plan.Related)
	st.Same(st.s.Tag, plan.Model())
	st.Len(plan.Clauses, 3)

	_, err = j.LeftJoin("events")
	st.Require().NoError(err)
	st.Equal(2, j.Merge(plan))
	st.Len(qb.Joins(), 3)
	st.Equal(0, j.Merge(plan))
}

func TestAliasesRoot(t *testing.T) {
	event := orm.NewModel("Event")

	assert.Equal(t, "events", relations.Aliases{}.Root(event))
	assert.Equal(t, "e", relations.Aliases{}.WithModel("Event", "e").Root(event))
	assert.Equal(t, "self", relations.Aliases{}.WithModel("Event", "e").WithSelf("self").Root(event))
}

func TestAliasesAreImmutable(t *testing.T) {
	base := relations.Aliases{}.WithSegment("orders", "orders_alt")
	changed := base.WithSegment("orders", "o2").WithModel("Venue", "v").WithSelf("e")

	alias, ok := base.Segment("orders")
	assert.True(t, ok)
	assert.Equal(t, "orders_alt", alias)
	_, ok = base.Model("Venue")
	assert.False(t, ok)
	assert.Equal(t, "", base.Self())

	alias, _ = changed.Segment("orders")
	assert.Equal(t, "o2", alias)
	assert.Equal(t, "e", changed.Self())
}

func TestAliasesFingerprint(t *testing.T) {
	assert.Equal(t, "", relations.Aliases{}.Fingerprint())
	assert.True(t, relations.Aliases{}.IsZero())

	a := relations.Aliases{}.WithSegment("b", "bb").WithSegment("a", "aa").WithModel("Venue", "v")
	b := relations.Aliases{}.WithModel("Venue", "v").WithSegment("a", "aa").WithSegment("b", "bb")
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, "self=;segment:a=aa;segment:b=bb;model:Venue=v", a.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), a.WithSelf("x").Fingerprint())
}

func TestErrorMessages(t *testing.T) {
	err := &relations.UnjoinableRelationError{Model: "Image", Segment: "imageable", Kind: orm.KindMorphTo}
	assert.Contains(t, err.Error(), "Image.imageable")
	assert.True(t, errors.Is(err, relations.ErrUnjoinable))
	assert.False(t, errors.Is(err, relations.ErrUnsupportedKind))

	require.Error(t, &relations.UnsupportedRelationKindError{Model: "Ticket", Segment: "x", Type: "*foo"})
}
