package starwars

import "sync"

// arena is an append-only collection guarded by its own lock. Slots are the
// positions in items and are never reused.
type arena[T any] struct {
	mu    sync.RWMutex
	items []T
}

func (a *arena[T]) insert(v T) Slot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, v)
	return Slot(len(a.items) - 1)
}

func (a *arena[T]) get(s Slot) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if s < 0 || int(s) >= len(a.items) {
		var zero T
		return zero, false
	}
	return a.items[s], true
}

func (a *arena[T]) update(s Slot, fn func(*T)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s < 0 || int(s) >= len(a.items) {
		return false
	}
	fn(&a.items[s])
	return true
}

func (a *arena[T]) snapshot() []T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]T, len(a.items))
	copy(out, a.items)
	return out
}

func (a *arena[T]) count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Store owns the character, starship and planet collections. Each collection
// is locked independently, so a planet lookup never waits on a character
// insert.
type Store struct {
	characters arena[Character]
	starships  arena[Starship]
	planets    arena[Planet]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// InsertCharacter appends c and returns its slot.
func (s *Store) InsertCharacter(c Character) Slot {
	return s.characters.insert(c.clone())
}

// InsertStarship appends ship and returns its slot.
func (s *Store) InsertStarship(ship Starship) Slot {
	return s.starships.insert(ship)
}

// InsertPlanet appends p and returns its slot.
func (s *Store) InsertPlanet(p Planet) Slot {
	return s.planets.insert(p)
}

// Character returns the character at slot, or false if the slot was never
// allocated by this store.
func (s *Store) Character(slot Slot) (Character, bool) {
	c, ok := s.characters.get(slot)
	if !ok {
		return Character{}, false
	}
	return c.clone(), true
}

// Starship returns the starship at slot.
func (s *Store) Starship(slot Slot) (Starship, bool) {
	return s.starships.get(slot)
}

// Planet returns the planet at slot.
func (s *Store) Planet(slot Slot) (Planet, bool) {
	return s.planets.get(slot)
}

// Characters returns every character in insertion order.
func (s *Store) Characters() []Character {
	all := s.characters.snapshot()
	for i := range all {
		all[i] = all[i].clone()
	}
	return all
}

// Starships returns every starship in insertion order.
func (s *Store) Starships() []Starship {
	return s.starships.snapshot()
}

// Counts reports the size of each collection.
func (s *Store) Counts() (characters, starships, planets int) {
	return s.characters.count(), s.starships.count(), s.planets.count()
}

// SetFriends replaces the friend list of the character at slot. It is meant
// for seeding, before the store is shared.
func (s *Store) SetFriends(slot Slot, friends ...Slot) bool {
	list := append([]Slot(nil), friends...)
	return s.characters.update(slot, func(c *Character) {
		c.Friends = list
	})
}

// SetHomePlanet links the character at slot to a planet. Seeding only.
func (s *Store) SetHomePlanet(slot, planet Slot) bool {
	return s.characters.update(slot, func(c *Character) {
		c.HomePlanet = SlotOf(planet)
	})
}
