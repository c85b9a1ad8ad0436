package anatomy

import "github.com/nathoo/boneyard/engine/dice"

// BodySlot is a coarse anatomical region used for equipment layering,
// independent of the fine-grained part tree.
type BodySlot uint8

const (
	HeadSlot BodySlot = iota
	TorsoSlot
	LeftArmSlot
	RightArmSlot
	LeftLegSlot
	RightLegSlot
)

// BodySlots lists every slot in declaration order.
var BodySlots = [...]BodySlot{HeadSlot, TorsoSlot, LeftArmSlot, RightArmSlot, LeftLegSlot, RightLegSlot}

// RandomBodySlot picks a slot uniformly through the BodySlots table.
func RandomBodySlot(src dice.Source) BodySlot {
	return BodySlots[src.Intn(len(BodySlots))]
}

func (s BodySlot) String() string {
	switch s {
	case HeadSlot:
		return "head"
	case TorsoSlot:
		return "torso"
	case LeftArmSlot:
		return "left arm"
	case RightArmSlot:
		return "right arm"
	case LeftLegSlot:
		return "left leg"
	case RightLegSlot:
		return "right leg"
	default:
		return "unknown"
	}
}

// ParseBodySlot maps a slot name ("left arm" or "left_arm") to its value.
func ParseBodySlot(s string) (BodySlot, bool) {
	for _, slot := range BodySlots {
		name := slot.String()
		if name == s || underscored(name) == s {
			return slot, true
		}
	}
	return 0, false
}

func underscored(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == ' ' {
			b[i] = '_'
		}
	}
	return string(b)
}

// SlotFor returns the coarse slot covering a part type. Front paws count
// as arms and hind paws as legs.
func SlotFor(t PartType) BodySlot {
	switch t.Role {
	case Head, Eye, Ear, Nose, Mouth, Maw, Brain:
		return HeadSlot
	case Arm, Hand:
		if t.Side == Left {
			return LeftArmSlot
		}
		return RightArmSlot
	case Leg, Foot:
		if t.Side == Left {
			return LeftLegSlot
		}
		return RightLegSlot
	case Paw:
		switch {
		case t.Hind && t.Side == Left:
			return LeftLegSlot
		case t.Hind:
			return RightLegSlot
		case t.Side == Left:
			return LeftArmSlot
		default:
			return RightArmSlot
		}
	default:
		return TorsoSlot
	}
}
