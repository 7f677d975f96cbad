package starwars

// Heroes are the two characters returned by the hero query.
type Heroes struct {
	// Saga is the hero of the whole saga, returned for EMPIRE or no episode.
	Saga Slot
	// Droid is returned for every other episode.
	Droid Slot
}

func strPtr(s string) *string {
	return &s
}

// Seed fills an empty store with the built-in dataset and returns the hero
// slots. The insertion order decides the slot values: starships, characters,
// friend lists, planets, home planets.
func Seed(s *Store) Heroes {
	xwing := s.InsertStarship(Starship{ID: "3000", Name: "X-Wing", Length: 12.49})
	tantive := s.InsertStarship(Starship{ID: "3001", Name: "Tantive IV", Length: 126})
	tie := s.InsertStarship(Starship{ID: "3002", Name: "Tie Fighter", Length: 9.2})
	deathStar := s.InsertStarship(Starship{ID: "3003", Name: "Death Star", Length: 12.49})
	// Shares its id with the Death Star in the dataset; lookups by id return
	// the Death Star.
	falcon := s.InsertStarship(Starship{ID: "3003", Name: "Millenium Falcon", Length: 34.75})

	trilogy := []Episode{Empire, NewHope, Jedi}

	luke := s.InsertCharacter(Character{
		ID: "1000", Name: "Luke Skywalker", IsHuman: true,
		AppearsIn: trilogy, Starship: SlotOf(xwing), Mass: 77,
	})
	vader := s.InsertCharacter(Character{
		ID: "1001", Name: "Darth Vader", IsHuman: true,
		AppearsIn: trilogy, Starship: SlotOf(tie), Mass: 120,
	})
	han := s.InsertCharacter(Character{
		ID: "1002", Name: "Han Solo", IsHuman: true,
		AppearsIn: trilogy, Starship: SlotOf(falcon), Mass: 85,
	})
	leia := s.InsertCharacter(Character{
		ID: "1003", Name: "Leia Organa", IsHuman: true,
		AppearsIn: trilogy, Starship: SlotOf(tantive), Mass: 60,
	})
	tarkin := s.InsertCharacter(Character{
		ID: "1004", Name: "Wilhuff Tarkin", IsHuman: true,
		AppearsIn: trilogy, Starship: SlotOf(deathStar), Mass: 90,
	})
	r2 := s.InsertCharacter(Character{
		ID: "2000", Name: "R2-D2",
		AppearsIn: trilogy, Mass: 32, PrimaryFunction: strPtr("Astromech"),
	})
	threepio := s.InsertCharacter(Character{
		ID: "2001", Name: "C-3PO",
		AppearsIn: trilogy, Mass: 75, PrimaryFunction: strPtr("Protocol"),
	})

	s.SetFriends(luke, leia, han, r2, threepio)
	s.SetFriends(leia, luke, han, r2, threepio)
	s.SetFriends(han, leia, luke, r2, threepio)
	s.SetFriends(r2, luke, leia, han, threepio)
	s.SetFriends(threepio, luke, han, leia, r2)

	s.SetFriends(tarkin, vader)
	s.SetFriends(vader, tarkin)

	tatooine := s.InsertPlanet(Planet{
		ID: "4000", Name: "Tatooine", Climate: "arid", Diameter: 10465,
		Gravity: "Standard", Population: 200000, RotationPeriod: 23, OrbitalPeriod: 304,
	})
	alderaan := s.InsertPlanet(Planet{
		ID: "4001", Name: "Alderaan", Climate: "arid", Diameter: 10465,
		Gravity: "Temperate", Population: 2000000000, RotationPeriod: 24, OrbitalPeriod: 364,
	})

	s.SetHomePlanet(luke, tatooine)
	s.SetHomePlanet(vader, tatooine)
	s.SetHomePlanet(leia, alderaan)

	return Heroes{Saga: luke, Droid: r2}
}
