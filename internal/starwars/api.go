package starwars

// API is the read-only view over a seeded Store. Every lookup is total: a
// missing record is reported with ok == false, never with an error.
type API struct {
	store  *Store
	heroes Heroes
}

// NewAPI wraps a seeded store.
func NewAPI(store *Store, heroes Heroes) *API {
	return &API{store: store, heroes: heroes}
}

// Default returns an API over the built-in dataset.
func Default() *API {
	store := NewStore()
	heroes := Seed(store)
	return NewAPI(store, heroes)
}

// Store exposes the underlying store.
func (a *API) Store() *Store {
	return a.store
}

// SagaHero returns the hero of the whole saga.
func (a *API) SagaHero() Character {
	c, _ := a.store.Character(a.heroes.Saga)
	return c
}

// DroidHero returns the hero used for every episode but EMPIRE.
func (a *API) DroidHero() Character {
	c, _ := a.store.Character(a.heroes.Droid)
	return c
}

// Hero returns the saga hero when episode is nil or EMPIRE and the droid
// hero for any other episode.
func (a *API) Hero(episode *Episode) Character {
	if episode == nil || *episode == Empire {
		return a.SagaHero()
	}
	return a.DroidHero()
}

// CharacterByID returns the first character with the given external id if
// it belongs to cat. A match in the other category is reported as absent.
func (a *API) CharacterByID(id string, cat Category) (Character, bool) {
	for _, c := range a.store.Characters() {
		if c.ID != id {
			continue
		}
		if !cat.Matches(c) {
			return Character{}, false
		}
		return c, true
	}
	return Character{}, false
}

// Human looks up a human by external id.
func (a *API) Human(id string) (Character, bool) {
	return a.CharacterByID(id, Human)
}

// Droid looks up a droid by external id.
func (a *API) Droid(id string) (Character, bool) {
	return a.CharacterByID(id, Droid)
}

// AllOf returns every character of the category in insertion order.
func (a *API) AllOf(cat Category) []Character {
	var out []Character
	for _, c := range a.store.Characters() {
		if cat.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Humans returns all humans.
func (a *API) Humans() []Character {
	return a.AllOf(Human)
}

// Droids returns all droids.
func (a *API) Droids() []Character {
	return a.AllOf(Droid)
}

// CharacterBySlot returns the character at slot.
func (a *API) CharacterBySlot(slot Slot) (Character, bool) {
	return a.store.Character(slot)
}

// StarshipBySlot returns the starship at slot.
func (a *API) StarshipBySlot(slot Slot) (Starship, bool) {
	return a.store.Starship(slot)
}

// PlanetBySlot returns the planet at slot.
func (a *API) PlanetBySlot(slot Slot) (Planet, bool) {
	return a.store.Planet(slot)
}

// Starship returns the first starship with the given external id.
func (a *API) Starship(id string) (Starship, bool) {
	for _, ship := range a.store.Starships() {
		if ship.ID == id {
			return ship, true
		}
	}
	return Starship{}, false
}

// Friends resolves the friend slots of c, skipping any that do not resolve.
func (a *API) Friends(c Character) []Character {
	out := make([]Character, 0, len(c.Friends))
	for _, slot := range c.Friends {
		if f, ok := a.store.Character(slot); ok {
			out = append(out, f)
		}
	}
	return out
}

// HomePlanet resolves the home planet of c.
func (a *API) HomePlanet(c Character) (Planet, bool) {
	if !c.HomePlanet.Valid {
		return Planet{}, false
	}
	return a.store.Planet(c.HomePlanet.Slot)
}

// StarshipOf resolves the starship flown by c.
func (a *API) StarshipOf(c Character) (Starship, bool) {
	if !c.Starship.Valid {
		return Starship{}, false
	}
	return a.store.Starship(c.Starship.Slot)
}
