package models

import (
	"sort"
	"strconv"
)

// Scenario is the decoded form of a .mul force file
type Scenario struct {
	Attributes *Record
	Entities   map[string]*Entity

	order []string
}

// NewScenario creates an empty scenario with the given root attributes
func NewScenario(attrs *Record) *Scenario {
	if attrs == nil {
		attrs = NewRecord(FormatMUL)
	}
	return &Scenario{
		Attributes: attrs,
		Entities:   make(map[string]*Entity),
	}
}

// AddEntity indexes an entity by its game id. It reports false when the id
// is already taken.
func (s *Scenario) AddEntity(e *Entity) bool {
	if _, exists := s.Entities[e.ID]; exists {
		return false
	}
	s.Entities[e.ID] = e
	s.order = append(s.order, e.ID)
	return true
}

// IDs returns entity ids in document order
func (s *Scenario) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Entity returns the entity with the given game id
func (s *Scenario) Entity(id string) (*Entity, bool) {
	e, ok := s.Entities[id]
	return e, ok
}

// Record converts the scenario to its canonical form:
// root attributes followed by an "entities" mapping keyed by game id.
func (s *Scenario) Record() *Record {
	rec := NewRecord(FormatMUL)
	s.Attributes.Each(rec.Set)

	entities := NewRecord(FormatMUL)
	for _, id := range s.order {
		entities.Set(id, s.Entities[id].Record())
	}
	rec.Set("entities", entities)
	return rec
}

// Entity is one unit in a force file
type Entity struct {
	ID         string
	Attributes *Record
	Pilot      *Record
	Locations  map[int]*Location
}

// Name returns the unit display name used as persistence key
func (e *Entity) Name() string {
	return DisplayName(e.Attributes.String("chassis"), e.Attributes.String("model"))
}

// Type returns the unit's movement type attribute, e.g. "Biped"
func (e *Entity) Type() string {
	return e.Attributes.String("type")
}

// Record converts the entity to its canonical form
func (e *Entity) Record() *Record {
	rec := NewRecord(FormatMUL)
	e.Attributes.Each(rec.Set)
	if e.Pilot != nil {
		rec.Set("pilot", e.Pilot)
	}
	if len(e.Locations) > 0 {
		locations := NewRecord(FormatMUL)
		for _, idx := range sortedKeys(e.Locations) {
			locations.Set(strconv.Itoa(idx), e.Locations[idx].Record())
		}
		rec.Set("locations", locations)
	}
	return rec
}

// Location is a body location of an entity with its ammunition slots
type Location struct {
	Index      int
	Name       string
	Attributes *Record
	Slots      map[int]*Slot
}

// Record converts the location to its canonical form
func (l *Location) Record() *Record {
	rec := NewRecord(FormatMUL)
	l.Attributes.Each(rec.Set)
	rec.Set("location", l.Name)

	slots := NewRecord(FormatMUL)
	for _, idx := range sortedKeys(l.Slots) {
		slots.Set(strconv.Itoa(idx), l.Slots[idx].Record())
	}
	rec.Set("slots", slots)
	return rec
}

// Slot is a critical slot entry; Shots is the remaining ammunition
type Slot struct {
	Index      int
	Shots      int
	Attributes *Record
}

// Record converts the slot to its canonical form with shots as an integer
func (s *Slot) Record() *Record {
	rec := NewRecord(FormatMUL)
	s.Attributes.Each(rec.Set)
	rec.Set("shots", s.Shots)
	return rec
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
