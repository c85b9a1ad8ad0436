package anatomy

// Freshness is the decay stage of organic tissue.
type Freshness uint8

const (
	Fresh Freshness = iota
	Rotten
	Skeletal
)

// Adjective returns the display adjective for the stage.
func (f Freshness) Adjective() string {
	switch f {
	case Fresh:
		return "fresh"
	case Rotten:
		return "rotten"
	case Skeletal:
		return "skeletal"
	default:
		return "strange"
	}
}

// Decay returns the next stage. Skeletal tissue does not decay further.
func (f Freshness) Decay() Freshness {
	if f >= Skeletal {
		return Skeletal
	}
	return f + 1
}

func (f Freshness) String() string { return f.Adjective() }

// BodySize is the coarse size class of a creature.
type BodySize uint8

const (
	Tiny BodySize = iota
	Small
	Normal
	Large
	Huge
)

func (s BodySize) String() string {
	switch s {
	case Tiny:
		return "tiny"
	case Small:
		return "small"
	case Normal:
		return "normal"
	case Large:
		return "large"
	case Huge:
		return "huge"
	default:
		return "unknown"
	}
}

// toughness is the damage a part of this size absorbs before it is crippled.
func (s BodySize) toughness() int {
	switch s {
	case Tiny:
		return 2
	case Small:
		return 3
	case Large:
		return 7
	case Huge:
		return 10
	default:
		return 5
	}
}

// Sex drives age-name selection. Other covers unspecified or custom genders.
type Sex uint8

const (
	Male Sex = iota
	Female
	Other
)

func (s Sex) String() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "other"
	}
}

// Race is a playable or spawnable species.
type Race uint8

const (
	Human Race = iota
	Gnome
	Lizardman
	Dog
)

func (r Race) String() string {
	switch r {
	case Human:
		return "human"
	case Gnome:
		return "gnome"
	case Lizardman:
		return "lizardman"
	case Dog:
		return "dog"
	default:
		return "creature"
	}
}

// Size returns the natural body size of the race.
func (r Race) Size() BodySize {
	switch r {
	case Gnome, Dog:
		return Small
	default:
		return Normal
	}
}

// Furred reports whether the race grows fur.
func (r Race) Furred() bool {
	return r == Dog
}

// Shape returns the body plan the race is built on.
func (r Race) Shape() Shape {
	if r == Dog {
		return Canine
	}
	return Humanoid
}

// SkinTone is the skin or scale colour of a creature.
type SkinTone uint8

const (
	Pale SkinTone = iota
	Fair
	Tanned
	Olive
	Brown
	Dark
	GreenScaled
)

func (t SkinTone) String() string {
	switch t {
	case Pale:
		return "pale"
	case Fair:
		return "fair"
	case Tanned:
		return "tanned"
	case Olive:
		return "olive"
	case Brown:
		return "brown"
	case Dark:
		return "dark"
	case GreenScaled:
		return "green-scaled"
	default:
		return "unknown"
	}
}

// FurColor is the coat colour of a furred creature.
type FurColor uint8

const (
	BlackFur FurColor = iota
	WhiteFur
	BrownFur
	GingerFur
	GrayFur
	SpottedFur
)

func (c FurColor) String() string {
	switch c {
	case BlackFur:
		return "black"
	case WhiteFur:
		return "white"
	case BrownFur:
		return "brown"
	case GingerFur:
		return "ginger"
	case GrayFur:
		return "gray"
	case SpottedFur:
		return "spotted"
	default:
		return "unknown"
	}
}
