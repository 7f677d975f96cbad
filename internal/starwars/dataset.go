package starwars

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Dataset is the YAML form of a seed. Starships and planets are referenced
// by Ref (defaulting to their id); characters are referenced by id, which
// must be unique across the file.
type Dataset struct {
	Heroes     DatasetHeroes      `yaml:"heroes"`
	Starships  []DatasetStarship  `yaml:"starships"`
	Characters []DatasetCharacter `yaml:"characters"`
	Planets    []DatasetPlanet    `yaml:"planets"`
}

// DatasetHeroes names the hero characters by id.
type DatasetHeroes struct {
	Saga  string `yaml:"saga"`
	Droid string `yaml:"droid"`
}

// DatasetStarship is a starship entry.
type DatasetStarship struct {
	Ref    string  `yaml:"ref"`
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Length float64 `yaml:"length"`
}

// DatasetPlanet is a planet entry.
type DatasetPlanet struct {
	Ref            string `yaml:"ref"`
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Climate        string `yaml:"climate"`
	Diameter       int    `yaml:"diameter"`
	Gravity        string `yaml:"gravity"`
	Population     int64  `yaml:"population"`
	RotationPeriod int    `yaml:"rotationPeriod"`
	OrbitalPeriod  int    `yaml:"orbitalPeriod"`
}

// DatasetCharacter is a character entry. Kind is "human" or "droid".
type DatasetCharacter struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Kind            string   `yaml:"kind"`
	AppearsIn       []string `yaml:"appearsIn"`
	Friends         []string `yaml:"friends"`
	Starship        string   `yaml:"starship"`
	HomePlanet      string   `yaml:"homePlanet"`
	PrimaryFunction *string  `yaml:"primaryFunction"`
	Mass            int      `yaml:"mass"`
}

func refOf(ref, id string) string {
	if ref != "" {
		return ref
	}
	return id
}

// LoadDatasetFile reads a YAML dataset from path and seeds a fresh API.
func LoadDatasetFile(path string) (*API, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	api, err := LoadDataset(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %s", path)
	}
	return api, nil
}

// LoadDataset decodes a YAML dataset and seeds a fresh API from it. The
// dataset is validated before anything is inserted, so an error never leaves
// a partially seeded store behind.
func LoadDataset(r io.Reader) (*API, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, errors.Wrap(err, "decode dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	store := NewStore()
	heroes := ds.seed(store)
	return NewAPI(store, heroes), nil
}

// Validate checks every reference in the dataset.
func (ds *Dataset) Validate() error {
	ships := make(map[string]bool, len(ds.Starships))
	for i, s := range ds.Starships {
		if s.ID == "" {
			return errors.Errorf("starship #%d: id is required", i)
		}
		ref := refOf(s.Ref, s.ID)
		if ships[ref] {
			return errors.Errorf("starship %s: duplicate ref %q", s.ID, ref)
		}
		ships[ref] = true
	}

	planets := make(map[string]bool, len(ds.Planets))
	for i, p := range ds.Planets {
		if p.ID == "" {
			return errors.Errorf("planet #%d: id is required", i)
		}
		for _, f := range []struct {
			name string
			v    int
		}{
			{"diameter", p.Diameter},
			{"rotationPeriod", p.RotationPeriod},
			{"orbitalPeriod", p.OrbitalPeriod},
		} {
			if !fitsInt32(f.v) {
				return errors.Errorf("planet %s: %s %d out of range", p.ID, f.name, f.v)
			}
		}
		ref := refOf(p.Ref, p.ID)
		if planets[ref] {
			return errors.Errorf("planet %s: duplicate ref %q", p.ID, ref)
		}
		planets[ref] = true
	}

	kinds := make(map[string]string, len(ds.Characters))
	for i, c := range ds.Characters {
		if c.ID == "" {
			return errors.Errorf("character #%d: id is required", i)
		}
		if _, dup := kinds[c.ID]; dup {
			return errors.Errorf("character %s: duplicate id", c.ID)
		}
		kinds[c.ID] = c.Kind
	}

	for _, c := range ds.Characters {
		if c.Kind != "human" && c.Kind != "droid" {
			return errors.Errorf("character %s: kind must be human or droid, got %q", c.ID, c.Kind)
		}
		if c.Mass < 0 {
			return errors.Errorf("character %s: negative mass %d", c.ID, c.Mass)
		}
		if !fitsInt32(c.Mass) {
			return errors.Errorf("character %s: mass %d out of range", c.ID, c.Mass)
		}
		for _, ep := range c.AppearsIn {
			if _, err := ParseEpisode(ep); err != nil {
				return errors.Wrapf(err, "character %s", c.ID)
			}
		}
		for _, f := range c.Friends {
			if _, ok := kinds[f]; !ok {
				return errors.Errorf("character %s: unknown friend %q", c.ID, f)
			}
		}
		if c.Starship != "" && !ships[c.Starship] {
			return errors.Errorf("character %s: unknown starship %q", c.ID, c.Starship)
		}
		if c.HomePlanet != "" && !planets[c.HomePlanet] {
			return errors.Errorf("character %s: unknown home planet %q", c.ID, c.HomePlanet)
		}
	}

	for _, h := range []struct {
		role, id, kind string
	}{
		{"saga", ds.Heroes.Saga, "human"},
		{"droid", ds.Heroes.Droid, "droid"},
	} {
		kind, ok := kinds[h.id]
		if !ok {
			return errors.Errorf("heroes: unknown %s hero %q", h.role, h.id)
		}
		if kind != h.kind {
			return errors.Errorf("heroes: %s hero %q must be a %s, got %s", h.role, h.id, h.kind, kind)
		}
	}
	return nil
}

// fitsInt32 reports whether v can be served as a GraphQL Int.
func fitsInt32(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// seed inserts a validated dataset in the same order as Seed.
func (ds *Dataset) seed(s *Store) Heroes {
	ships := make(map[string]Slot, len(ds.Starships))
	for _, d := range ds.Starships {
		ships[refOf(d.Ref, d.ID)] = s.InsertStarship(Starship{ID: d.ID, Name: d.Name, Length: d.Length})
	}

	chars := make(map[string]Slot, len(ds.Characters))
	for _, d := range ds.Characters {
		c := Character{
			ID:              d.ID,
			Name:            d.Name,
			IsHuman:         d.Kind == "human",
			PrimaryFunction: d.PrimaryFunction,
			Mass:            d.Mass,
		}
		for _, name := range d.AppearsIn {
			ep, _ := ParseEpisode(name)
			c.AppearsIn = append(c.AppearsIn, ep)
		}
		if d.Starship != "" {
			c.Starship = SlotOf(ships[d.Starship])
		}
		chars[d.ID] = s.InsertCharacter(c)
	}

	for _, d := range ds.Characters {
		friends := make([]Slot, 0, len(d.Friends))
		for _, f := range d.Friends {
			friends = append(friends, chars[f])
		}
		s.SetFriends(chars[d.ID], friends...)
	}

	planets := make(map[string]Slot, len(ds.Planets))
	for _, d := range ds.Planets {
		planets[refOf(d.Ref, d.ID)] = s.InsertPlanet(Planet{
			ID:             d.ID,
			Name:           d.Name,
			Climate:        d.Climate,
			Diameter:       d.Diameter,
			Gravity:        d.Gravity,
			Population:     d.Population,
			RotationPeriod: d.RotationPeriod,
			OrbitalPeriod:  d.OrbitalPeriod,
		})
	}

	for _, d := range ds.Characters {
		if d.HomePlanet != "" {
			s.SetHomePlanet(chars[d.ID], planets[d.HomePlanet])
		}
	}

	return Heroes{Saga: chars[ds.Heroes.Saga], Droid: chars[ds.Heroes.Droid]}
}
