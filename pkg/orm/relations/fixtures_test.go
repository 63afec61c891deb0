package relations_test

import (
	"io"

	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/logger"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// schema, her test için taze bir model grafiği kurar.
type schema struct {
	User, Role, Reservation, Ticket, Event, Venue, Section, Seat, Tag, Comment, Image *orm.Model

	Registry *orm.Registry
}

func newSchema() *schema {
	s := &schema{
		User:        orm.NewModel("User"),
		Role:        orm.NewModel("Role"),
		Reservation: orm.NewModel("Reservation"),
		Ticket:      orm.NewModel("Ticket"),
		Event:       orm.NewModel("Event", orm.WithSoftDeletes()),
		Venue:       orm.NewModel("Venue"),
		Section:     orm.NewModel("Section", orm.WithSoftDeletes("removed_at")),
		Seat:        orm.NewModel("Seat", orm.WithKeys("section_id", "number")),
		Tag:         orm.NewModel("Tag"),
		Comment:     orm.NewModel("Comment"),
		Image:       orm.NewModel("Image"),
	}

	s.User.
		Define("reservations", orm.HasMany(s.User, s.Reservation)).
		Define("roles", orm.BelongsToMany(s.User, s.Role))
	s.Reservation.
		Define("user", orm.BelongsTo(s.Reservation, s.User)).
		Define("tickets", orm.HasMany(s.Reservation, s.Ticket))
	s.Ticket.
		Define("event", orm.BelongsTo(s.Ticket, s.Event)).
		Define("seat", orm.BelongsTo(s.Ticket, s.Seat, orm.ForeignKey("seat_section_id", "seat_number")))
	s.Event.
		Define("venue", orm.BelongsTo(s.Event, s.Venue)).
		Define("tickets", orm.HasMany(s.Event, s.Ticket)).
		Define("tags", orm.MorphToMany(s.Event, s.Tag, "taggable")).
		Define("comments", orm.MorphMany(s.Event, s.Comment, "commentable")).
		Define("cover", orm.MorphOne(s.Event, s.Image, "imageable"))
	s.Venue.
		Define("events", orm.HasMany(s.Venue, s.Event)).
		Define("sections", orm.HasMany(s.Venue, s.Section)).
		Define("seats", orm.HasManyThrough(s.Venue, s.Seat, s.Section)).
		Define("tags", orm.BelongsToMany(s.Venue, s.Tag))
	s.Tag.
		Define("events", orm.MorphedByMany(s.Tag, s.Event, "taggable")).
		Define("taggedEvents", orm.MorphedByMany(s.Tag, s.Event, "taggable", orm.MorphClass("Event")))
	s.Comment.Define("commentable", orm.MorphTo(s.Comment, "commentable"))
	s.Image.Define("imageable", orm.MorphTo(s.Image, "imageable"))

	s.Registry = orm.NewRegistry().MustRegister(
		s.User, s.Role, s.Reservation, s.Ticket, s.Event, s.Venue,
		s.Section, s.Seat, s.Tag, s.Comment, s.Image,
	)
	return s
}

func quietLogger() *logger.Logger {
	return logger.New(logger.WithOutput(io.Discard))
}

func newQuery(table string) *database.QueryBuilder {
	return database.NewBuilder(nil, database.NewMySQLGrammar()).Table(table)
}

func eq(first, second string) database.JoinCondition {
	return database.JoinCondition{First: database.Col(first), Operator: "=", Second: database.Col(second)}
}

func isNull(column string) database.JoinPredicate {
	return database.JoinPredicate{Column: database.Col(column), Operator: "IS"}
}

func equals(column string, value interface{}) database.JoinPredicate {
	return database.JoinPredicate{Column: database.Col(column), Operator: "=", Value: value}
}
