package items

import (
	"fmt"
	"strings"

	"github.com/nathoo/boneyard/engine/anatomy"
)

// SkeletonYears is how long a buried body takes to lose its flesh.
const SkeletonYears = 20

// Shroud is the wrap an exhumed body is found in.
var Shroud = anatomy.Worn{Name: "burial shroud", Slot: anatomy.TorsoSlot, Mass: 0.5}

// NewCorpse wraps a body in a corpse item. The body is moved into the item.
// Carrying a corpse takes both hands.
func NewCorpse(id string, body anatomy.Body) Item {
	return Item{ID: id, Kind: Corpse, TwoHanded: true, Body: &body}
}

// NewGravestone creates a gravestone carrying an epitaph.
func NewGravestone(id string, e Epitaph) Item {
	return Item{ID: id, Kind: Gravestone, Name: "gravestone", Epitaph: &e}
}

// corpseName renders "[naked] <freshness> <age-name> corpse", or
// "[naked] dismembered corpse" when the root part is gone.
func corpseName(body *anatomy.Body) string {
	var words []string
	if body == nil || body.Naked() {
		words = append(words, "naked")
	}
	var root anatomy.BodyPart
	ok := false
	if body != nil {
		root, ok = body.Root()
	}
	if ok {
		words = append(words,
			root.Data.Freshness.Adjective(),
			anatomy.AgeName(root.Data.Race, root.Data.Sex, root.Data.Age))
	} else {
		words = append(words, "dismembered")
	}
	words = append(words, "corpse")
	return strings.Join(words, " ")
}

// Epitaph is the inscription on a gravestone.
type Epitaph struct {
	Name      string `json:"n"`
	Age       uint8  `json:"a"`
	DeathYear int    `json:"y"`
}

// BirthYear is the death year minus the age at death.
func (e Epitaph) BirthYear() int {
	return e.DeathYear - int(e.Age)
}

func (e Epitaph) String() string {
	name := e.Name
	if name == "" {
		name = "an unknown soul"
	}
	return fmt.Sprintf("Here lies %s, %d-%d. Aged %d.", name, e.BirthYear(), e.DeathYear, e.Age)
}

// Grave is a buried body that has not been dug up yet. Only the profile is
// stored; the body is rebuilt on exhumation.
type Grave struct {
	Profile   anatomy.Profile `json:"p"`
	DeathYear int             `json:"y"`
}

// Epitaph returns the inscription for the grave's occupant.
func (g Grave) Epitaph() Epitaph {
	return Epitaph{Name: g.Profile.Name, Age: g.Profile.Age, DeathYear: g.DeathYear}
}

// Read returns the epitaph text.
func (g Grave) Read() string {
	return g.Epitaph().String()
}

// Freshness derives the state of the buried body from the years elapsed
// since death.
func (g Grave) Freshness(year int) anatomy.Freshness {
	if year-g.DeathYear < SkeletonYears {
		return anatomy.Rotten
	}
	return anatomy.Skeletal
}

// Exhume digs the grave up: a gravestone with the epitaph and the dead body
// of the occupant, decayed to match the elapsed time and wrapped in a shroud.
func (g Grave) Exhume(year int, stoneID, corpseID string) (stone, corpse Item) {
	body := anatomy.BuildBody(g.Profile)
	body.Kill()
	body.SetFreshness(g.Freshness(year))
	body.Dress(Shroud)
	return NewGravestone(stoneID, g.Epitaph()), NewCorpse(corpseID, body)
}
