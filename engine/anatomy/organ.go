package anatomy

import "github.com/nathoo/boneyard/engine/dice"

// OrganData is the biological snapshot every body part carries.
// It is a value type: each part owns its own copy.
type OrganData struct {
	Race      Race      `json:"r"`
	Freshness Freshness `json:"f"`
	Age       uint8     `json:"a"`
	Size      BodySize  `json:"s"`
	Alive     bool      `json:"l"`
	Sex       Sex       `json:"x"`
	Skin      SkinTone  `json:"k"`
	Fur       *FurColor `json:"c,omitempty"` // furred races only
}

// Profile is the character snapshot a body is built from.
type Profile struct {
	Name string    `json:"n"`
	Race Race      `json:"r"`
	Sex  Sex       `json:"x"`
	Age  uint8     `json:"a"`
	Skin SkinTone  `json:"k"`
	Fur  *FurColor `json:"c,omitempty"`
}

// OrganData returns the birth template for a body built from the profile:
// fresh, alive, sized by race.
func (p Profile) OrganData() OrganData {
	data := OrganData{
		Race:      p.Race,
		Freshness: Fresh,
		Age:       p.Age,
		Size:      p.Race.Size(),
		Alive:     true,
		Sex:       p.Sex,
		Skin:      p.Skin,
	}
	if p.Race.Furred() && p.Fur != nil {
		fur := *p.Fur
		data.Fur = &fur
	}
	return data
}

// clone returns a copy that shares no pointers with d.
func (d OrganData) clone() OrganData {
	if d.Fur != nil {
		fur := *d.Fur
		d.Fur = &fur
	}
	return d
}

// equal compares two snapshots by value, including fur colour.
func (d OrganData) equal(o OrganData) bool {
	if (d.Fur == nil) != (o.Fur == nil) {
		return false
	}
	if d.Fur != nil && *d.Fur != *o.Fur {
		return false
	}
	a, b := d, o
	a.Fur, b.Fur = nil, nil
	return a == b
}

// Trait tables sampled by index; never cast random integers to enums.
var (
	sexes         = []Sex{Male, Female}
	humanSkins    = []SkinTone{Pale, Fair, Tanned, Olive, Brown, Dark}
	allSkins      = []SkinTone{Pale, Fair, Tanned, Olive, Brown, Dark, GreenScaled}
	furColors     = []FurColor{BlackFur, WhiteFur, BrownFur, GingerFur, GrayFur, SpottedFur}
	adultAgeRange = map[Race][2]int{
		Human:     {16, 70},
		Gnome:     {20, 120},
		Lizardman: {10, 40},
		Dog:       {1, 12},
	}
)

// RandomProfile samples sex, age, skin tone and fur for the race.
func RandomProfile(src dice.Source, race Race, name string) Profile {
	p := Profile{Name: name, Race: race}
	p.Sex = sexes[src.Intn(len(sexes))]

	ages, ok := adultAgeRange[race]
	if !ok {
		ages = [2]int{16, 60}
	}
	p.Age = uint8(ages[0] + src.Intn(ages[1]-ages[0]+1))

	switch {
	case race == Lizardman:
		p.Skin = GreenScaled
	case race.Furred():
		fur := furColors[src.Intn(len(furColors))]
		p.Fur = &fur
	default:
		p.Skin = humanSkins[src.Intn(len(humanSkins))]
	}
	return p
}

// ParseRace maps a race name to its value.
func ParseRace(s string) (Race, bool) {
	for _, r := range []Race{Human, Gnome, Lizardman, Dog} {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// ParseSex maps a sex name to its value.
func ParseSex(s string) (Sex, bool) {
	for _, x := range []Sex{Male, Female, Other} {
		if x.String() == s {
			return x, true
		}
	}
	return 0, false
}

// ParseSkinTone maps a skin tone name to its value.
func ParseSkinTone(s string) (SkinTone, bool) {
	for _, t := range allSkins {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// ParseFurColor maps a fur colour name to its value.
func ParseFurColor(s string) (FurColor, bool) {
	for _, c := range furColors {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}
