// Package starwars holds the in-memory Star Wars dataset: an arena store of
// characters, starships and planets linked by slot index, the seed loaders
// that populate it, and the read-only API the GraphQL layer queries.
package starwars

import (
	"slices"

	"github.com/pkg/errors"
)

// =============================================================================
// EPISODES
// =============================================================================

// Episode is one of the films in the original trilogy.
type Episode int

const (
	// NewHope was released in 1977.
	NewHope Episode = iota
	// Empire was released in 1980.
	Empire
	// Jedi was released in 1983.
	Jedi
)

var episodeNames = [...]string{
	NewHope: "NEWHOPE",
	Empire:  "EMPIRE",
	Jedi:    "JEDI",
}

var episodeYears = [...]int{
	NewHope: 1977,
	Empire:  1980,
	Jedi:    1983,
}

// AllEpisodes lists the episodes in release order.
var AllEpisodes = []Episode{NewHope, Empire, Jedi}

// String returns the GraphQL enum value of the episode.
func (e Episode) String() string {
	if !e.Valid() {
		return "UNKNOWN"
	}
	return episodeNames[e]
}

// Year returns the release year.
func (e Episode) Year() int {
	if !e.Valid() {
		return 0
	}
	return episodeYears[e]
}

// Valid reports whether e is one of the known episodes.
func (e Episode) Valid() bool {
	return e >= NewHope && e <= Jedi
}

// ParseEpisode maps a GraphQL enum value back to an Episode.
func ParseEpisode(s string) (Episode, error) {
	for i, name := range episodeNames {
		if name == s {
			return Episode(i), nil
		}
	}
	return 0, errors.Errorf("unknown episode %q", s)
}

// =============================================================================
// RECORDS
// =============================================================================

// Slot is a handle assigned by a Store on insertion. It is only meaningful
// for the store that issued it.
type Slot int

// NullSlot is an optional slot reference.
type NullSlot struct {
	Slot  Slot
	Valid bool
}

// SlotOf returns a valid NullSlot pointing at s.
func SlotOf(s Slot) NullSlot {
	return NullSlot{Slot: s, Valid: true}
}

// Character is either a human or a droid. Both share one record shape;
// IsHuman decides which of the category specific fields are meaningful.
type Character struct {
	ID      string
	Name    string
	IsHuman bool

	// Friends are slots into the character collection.
	Friends   []Slot
	AppearsIn []Episode

	// Human only.
	HomePlanet NullSlot
	Starship   NullSlot

	// Droid only.
	PrimaryFunction *string

	// Mass in kilograms.
	Mass int
}

func (c Character) clone() Character {
	c.Friends = slices.Clone(c.Friends)
	c.AppearsIn = slices.Clone(c.AppearsIn)
	if c.PrimaryFunction != nil {
		fn := *c.PrimaryFunction
		c.PrimaryFunction = &fn
	}
	return c
}

// Starship is a named vessel with its length in meters.
type Starship struct {
	ID     string
	Name   string
	Length float64
}

// Planet describes a world characters can call home.
type Planet struct {
	ID      string
	Name    string
	Climate string
	// Diameter in kilometers.
	Diameter int
	Gravity  string
	// Population count.
	Population int64
	// RotationPeriod in standard hours.
	RotationPeriod int
	// OrbitalPeriod in standard days.
	OrbitalPeriod int
}

// Category selects humans or droids.
type Category int

const (
	Human Category = iota
	Droid
)

// Matches reports whether c belongs to the category.
func (cat Category) Matches(c Character) bool {
	if cat == Human {
		return c.IsHuman
	}
	return !c.IsHuman
}
