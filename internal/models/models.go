// -----------------------------------------------------------------------------
// Ticketing Models
// -----------------------------------------------------------------------------
// Bilet satış sisteminin model grafiği: kullanıcılar, mekanlar, bölümler,
// koltuklar, etkinlikler, biletler ve rezervasyonlar. Etiket, yorum ve
// görseller polymorphic relation'larla bağlanır.
//
// Tablolar:
//
//	users, roles, role_user
//	venues (soft delete), sections (soft delete), seats
//	events (soft delete), section_prices (event_id + section_id composite key)
//	tickets (soft delete), reservations
//	tags, taggables, comments, images
//
// Aynı grafik config/schema.yaml ile de tanımlıdır; ikisi birbirine denk
// tutulmalıdır.
// -----------------------------------------------------------------------------

package models

import (
	"github.com/ceopag/eloquence-base/pkg/orm"
)

// Schema, ticketing modellerini ve onları tutan registry'yi bir arada taşır.
type Schema struct {
	User         *orm.Model
	Role         *orm.Model
	Venue        *orm.Model
	Section      *orm.Model
	Seat         *orm.Model
	Event        *orm.Model
	SectionPrice *orm.Model
	Ticket       *orm.Model
	Reservation  *orm.Model
	Tag          *orm.Model
	Comment      *orm.Model
	Image        *orm.Model

	Registry *orm.Registry
}

// New, modelleri ve relation'larını tanımlar. Her çağrı bağımsız bir grafik döner.
//
//	s := models.New()
//	joiner := relations.NewJoiner(qb, s.Event)
//	joiner.Join("venue.sections")
func New() *Schema {
	s := &Schema{
		User:         orm.NewModel("User"),
		Role:         orm.NewModel("Role"),
		Venue:        orm.NewModel("Venue", orm.WithSoftDeletes()),
		Section:      orm.NewModel("Section", orm.WithSoftDeletes()),
		Seat:         orm.NewModel("Seat"),
		Event:        orm.NewModel("Event", orm.WithSoftDeletes()),
		SectionPrice: orm.NewModel("SectionPrice", orm.WithKeys("event_id", "section_id")),
		Ticket:       orm.NewModel("Ticket", orm.WithSoftDeletes()),
		Reservation:  orm.NewModel("Reservation"),
		Tag:          orm.NewModel("Tag"),
		Comment:      orm.NewModel("Comment"),
		Image:        orm.NewModel("Image"),
	}

	s.User.
		Define("tickets", orm.HasMany(s.User, s.Ticket)).
		Define("reservations", orm.HasMany(s.User, s.Reservation)).
		Define("organizedEvents", orm.HasMany(s.User, s.Event, orm.ForeignKey("organizer_id"))).
		Define("roles", orm.BelongsToMany(s.User, s.Role)).
		Define("comments", orm.HasMany(s.User, s.Comment))

	s.Role.Define("users", orm.BelongsToMany(s.Role, s.User))

	s.Venue.
		Define("sections", orm.HasMany(s.Venue, s.Section)).
		Define("events", orm.HasMany(s.Venue, s.Event)).
		Define("seats", orm.HasManyThrough(s.Venue, s.Seat, s.Section)).
		Define("image", orm.MorphOne(s.Venue, s.Image, "imageable"))

	s.Section.
		Define("venue", orm.BelongsTo(s.Section, s.Venue)).
		Define("seats", orm.HasMany(s.Section, s.Seat)).
		Define("prices", orm.HasMany(s.Section, s.SectionPrice))

	s.Seat.
		Define("section", orm.BelongsTo(s.Seat, s.Section)).
		Define("tickets", orm.HasMany(s.Seat, s.Ticket))

	s.Event.
		Define("venue", orm.BelongsTo(s.Event, s.Venue)).
		Define("organizer", orm.BelongsTo(s.Event, s.User, orm.ForeignKey("organizer_id"))).
		Define("tickets", orm.HasMany(s.Event, s.Ticket)).
		Define("prices", orm.HasMany(s.Event, s.SectionPrice)).
		Define("tags", orm.MorphToMany(s.Event, s.Tag, "taggable")).
		Define("comments", orm.MorphMany(s.Event, s.Comment, "commentable")).
		Define("cover", orm.MorphOne(s.Event, s.Image, "imageable"))

	s.SectionPrice.
		Define("event", orm.BelongsTo(s.SectionPrice, s.Event)).
		Define("section", orm.BelongsTo(s.SectionPrice, s.Section))

	s.Ticket.
		Define("event", orm.BelongsTo(s.Ticket, s.Event)).
		Define("seat", orm.BelongsTo(s.Ticket, s.Seat)).
		Define("holder", orm.BelongsTo(s.Ticket, s.User)).
		Define("price", orm.BelongsTo(s.Ticket, s.SectionPrice, orm.ForeignKey("event_id", "section_id"))).
		Define("reservation", orm.HasOne(s.Ticket, s.Reservation))

	s.Reservation.
		Define("ticket", orm.BelongsTo(s.Reservation, s.Ticket)).
		Define("user", orm.BelongsTo(s.Reservation, s.User))

	s.Tag.
		Define("events", orm.MorphedByMany(s.Tag, s.Event, "taggable", orm.MorphClass(s.Event.MorphClass))).
		Define("venues", orm.MorphedByMany(s.Tag, s.Venue, "taggable", orm.MorphClass(s.Venue.MorphClass)))

	s.Comment.
		Define("author", orm.BelongsTo(s.Comment, s.User)).
		Define("commentable", orm.MorphTo(s.Comment, "commentable"))

	s.Image.Define("imageable", orm.MorphTo(s.Image, "imageable"))

	s.Registry = orm.NewRegistry().MustRegister(
		s.User, s.Role, s.Venue, s.Section, s.Seat, s.Event, s.SectionPrice,
		s.Ticket, s.Reservation, s.Tag, s.Comment, s.Image,
	)
	return s
}
