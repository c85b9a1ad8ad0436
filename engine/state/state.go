// Package state holds the mutable world: actors, the items lying on the
// ground, terrain and graves, plus the immutable definitions it was built
// from.
package state

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/types"
)

// ItemDef is an item as authored in content.
type ItemDef struct {
	Item        items.Item
	Pos         *Position // nil when the item starts wielded or worn
	Description string
	Rules       []types.RuleDef
}

// ActorDef is an actor as authored in content. Nil traits are sampled
// when the state is built.
type ActorDef struct {
	ID          string
	Name        string
	Description string
	Player      bool
	Hostile     bool
	Pos         Position
	Race        anatomy.Race
	Sex         *anatomy.Sex
	Age         uint8 // 0 samples an adult age
	Skin        *anatomy.SkinTone
	Fur         *anatomy.FurColor
	Hand        items.MainHand
	Skill       int
	Dodge       int
	Unarmed     dice.Stack
	Wield       []string // item IDs, main hand first
	Wear        []string // garment item IDs
	Behavior    []types.BehaviorEntry
	Topics      map[string]types.TopicDef
	Rules       []types.RuleDef
}

// GraveDef is a buried body placed on the arena.
type GraveDef struct {
	Pos   Position
	Grave items.Grave
}

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game        types.GameDef
	Items       map[string]ItemDef
	Actors      map[string]ActorDef
	Graves      []GraveDef
	Walls       []Position
	GlobalRules []types.RuleDef
	Handlers    []types.EventHandler
}

// State is the complete mutable game state.
type State struct {
	Turn        int                       `json:"turn"`
	Year        int                       `json:"year"`
	Width       int                       `json:"width"`
	Height      int                       `json:"height"`
	PlayerID    string                    `json:"player_id"`
	Actors      map[string]*Actor         `json:"actors"`
	Order       []string                  `json:"order"`
	Ground      map[Position][]items.Item `json:"ground"`
	Terrain     map[Position]Tile         `json:"terrain"`
	Graves      map[Position]items.Grave  `json:"graves"`
	Flags       map[string]bool           `json:"flags"`
	Counters    map[string]int            `json:"counters"`
	RNGSeed     int64                     `json:"rng_seed"`
	RNGPosition int64                     `json:"rng_position"`
	NextID      uint64                    `json:"next_id"`
	CommandLog  []string                  `json:"command_log"`
}

// Empty returns a state with every map allocated and nothing in it.
func Empty() *State {
	return &State{
		Actors:     map[string]*Actor{},
		Ground:     map[Position][]items.Item{},
		Terrain:    map[Position]Tile{},
		Graves:     map[Position]items.Grave{},
		Flags:      map[string]bool{},
		Counters:   map[string]int{},
		CommandLog: []string{},
	}
}

// NewState builds a fresh world from definitions. Actor traits left unset
// in content are sampled from src.
func NewState(defs *Defs, seed int64, src dice.Source) (*State, error) {
	s := Empty()
	s.Width, s.Height = defs.Game.Width, defs.Game.Height
	s.Year = defs.Game.Year
	s.RNGSeed = seed

	for _, p := range defs.Walls {
		s.Terrain[p] = Wall
	}
	for _, g := range defs.Graves {
		s.Graves[g.Pos] = g.Grave
	}
	for _, id := range sortedKeys(defs.Items) {
		def := defs.Items[id]
		if def.Pos != nil {
			s.PutItem(*def.Pos, def.Item)
		}
	}

	for _, id := range sortedKeys(defs.Actors) {
		def := defs.Actors[id]
		a, err := buildActor(def, defs, src)
		if err != nil {
			return nil, fmt.Errorf("actor %q: %w", id, err)
		}
		s.Actors[id] = a
		if a.Player {
			s.PlayerID = id
			s.Order = append([]string{id}, s.Order...)
		} else {
			s.Order = append(s.Order, id)
		}
	}
	return s, nil
}

func buildActor(def ActorDef, defs *Defs, src dice.Source) (*Actor, error) {
	profile := anatomy.RandomProfile(src, def.Race, def.Name)
	if def.Sex != nil {
		profile.Sex = *def.Sex
	}
	if def.Age > 0 {
		profile.Age = def.Age
	}
	if def.Skin != nil {
		profile.Skin = *def.Skin
	}
	if def.Fur != nil && def.Race.Furred() {
		fur := *def.Fur
		profile.Fur = &fur
	}

	a := &Actor{
		ID:       def.ID,
		Name:     def.Name,
		Player:   def.Player,
		Hostile:  def.Hostile,
		Pos:      def.Pos,
		Profile:  profile,
		Body:     anatomy.BuildBody(profile),
		Hand:     def.Hand,
		Skill:    def.Skill,
		Dodge:    def.Dodge,
		Unarmed:  def.Unarmed,
		Behavior: def.Behavior,
	}
	if a.Unarmed.Len() == 0 {
		a.Unarmed = DefaultUnarmed(def.Race)
	}
	a.Wield.Active = a.Wield.Dominant(def.Hand)

	for _, id := range def.Wear {
		it, ok := defs.Items[id]
		if !ok || it.Item.Garment == nil {
			return nil, fmt.Errorf("worn item %q is not a garment", id)
		}
		a.Body.Dress(*it.Item.Garment)
	}
	for i, id := range def.Wield {
		it, ok := defs.Items[id]
		if !ok {
			return nil, fmt.Errorf("wielded item %q not defined", id)
		}
		if i > 0 {
			a.Wield.SwitchActive()
		}
		if err := a.Wield.Wield(it.Item); err != nil {
			return nil, fmt.Errorf("wield %q: %w", id, err)
		}
	}
	if len(def.Wield) > 1 {
		a.Wield.SwitchActive()
	}
	return a, nil
}

// DefaultUnarmed is the damage a race deals with no weapon in hand.
func DefaultUnarmed(r anatomy.Race) dice.Stack {
	if r == anatomy.Dog {
		return dice.NewStack(dice.D6)
	}
	return dice.NewStack(dice.D4)
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("boneyard"))

// NewID allocates a new entity ID. IDs are UUIDv5 hashes of the world
// seed, the kind and a counter, so replays allocate identical IDs.
func (s *State) NewID(kind string) string {
	s.NextID++
	name := fmt.Sprintf("%d/%s/%d", s.RNGSeed, kind, s.NextID)
	return kind + "-" + uuid.NewSHA1(idNamespace, []byte(name)).String()[:8]
}

// Player returns the player actor, or nil.
func (s *State) Player() *Actor {
	return s.Actors[s.PlayerID]
}

// Actor returns the actor with the given ID, or nil.
func (s *State) Actor(id string) *Actor {
	return s.Actors[id]
}

// ActorAt returns the living actor standing on p, or nil.
func (s *State) ActorAt(p Position) *Actor {
	for _, id := range s.Order {
		if a := s.Actors[id]; a != nil && !a.Dead && a.Pos == p {
			return a
		}
	}
	return nil
}

// Living returns the actors still standing, in turn order.
func (s *State) Living() []*Actor {
	var out []*Actor
	for _, id := range s.Order {
		if a := s.Actors[id]; a != nil && a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// InBounds reports whether p lies on the arena.
func (s *State) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// TileAt returns the terrain at p.
func (s *State) TileAt(p Position) Tile {
	return s.Terrain[p]
}

// ItemsAt returns the items lying on p, bottom first.
func (s *State) ItemsAt(p Position) []items.Item {
	return s.Ground[p]
}

// PutItem drops an item on p.
func (s *State) PutItem(p Position, it items.Item) {
	s.Ground[p] = append(s.Ground[p], it)
}

// TakeItem removes the item with the given ID from p.
func (s *State) TakeItem(p Position, id string) (items.Item, bool) {
	list := s.Ground[p]
	for i, it := range list {
		if it.ID != id {
			continue
		}
		rest := append(list[:i:i], list[i+1:]...)
		if len(rest) == 0 {
			delete(s.Ground, p)
		} else {
			s.Ground[p] = rest
		}
		return it, true
	}
	return items.Item{}, false
}

// FindItem returns where an item lies on the ground.
func (s *State) FindItem(id string) (Position, bool) {
	for p, list := range s.Ground {
		for _, it := range list {
			if it.ID == id {
				return p, true
			}
		}
	}
	return Position{}, false
}

// Grave returns the unopened grave at p.
func (s *State) Grave(p Position) (items.Grave, bool) {
	g, ok := s.Graves[p]
	return g, ok
}

// GetFlag returns the value of a flag. Unset flags return false.
func (s *State) GetFlag(name string) bool {
	return s.Flags[name]
}

// GetCounter returns the value of a counter. Unset counters return 0.
func (s *State) GetCounter(name string) int {
	return s.Counters[name]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
