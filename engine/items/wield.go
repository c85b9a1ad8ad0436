package items

import "fmt"

// MainHand is an actor's handedness.
type MainHand uint8

const (
	RightHanded MainHand = iota
	LeftHanded
	Ambidexter
)

func (m MainHand) String() string {
	switch m {
	case LeftHanded:
		return "left-handed"
	case Ambidexter:
		return "ambidextrous"
	default:
		return "right-handed"
	}
}

// ParseMainHand maps "left", "right" or "ambidexter" to a handedness.
func ParseMainHand(s string) (MainHand, bool) {
	switch s {
	case "right", "right-handed":
		return RightHanded, true
	case "left", "left-handed":
		return LeftHanded, true
	case "ambidexter", "ambidextrous":
		return Ambidexter, true
	}
	return 0, false
}

// Hand is one of the two wield slots.
type Hand uint8

const (
	RightHand Hand = iota
	LeftHand
)

// Other returns the opposite hand.
func (h Hand) Other() Hand {
	if h == LeftHand {
		return RightHand
	}
	return LeftHand
}

func (h Hand) String() string {
	if h == LeftHand {
		return "left hand"
	}
	return "right hand"
}

// Wield holds what an actor carries in each hand. Active is the hand used
// for single-handed actions. A two-handed item sits in one slot and blocks
// the other.
type Wield struct {
	Left   *Item `json:"l,omitempty"`
	Right  *Item `json:"r,omitempty"`
	Active Hand  `json:"a"`
}

func (w *Wield) slot(h Hand) **Item {
	if h == LeftHand {
		return &w.Left
	}
	return &w.Right
}

// In returns the item held in h, or nil.
func (w *Wield) In(h Hand) *Item {
	return *w.slot(h)
}

// ActiveItem returns the item in the active hand, or nil.
func (w *Wield) ActiveItem() *Item {
	return w.In(w.Active)
}

// OffItem returns the item in the off hand, or nil.
func (w *Wield) OffItem() *Item {
	return w.In(w.Active.Other())
}

// CanWield reports why a new item cannot go into the active hand.
func (w *Wield) CanWield(twoHanded bool) error {
	if held := w.ActiveItem(); held != nil {
		return fmt.Errorf("you are already holding %s in your %s", held.DisplayName(), w.Active)
	}
	off := w.OffItem()
	if off != nil && off.TwoHanded {
		return fmt.Errorf("you need both hands for %s", off.DisplayName())
	}
	if twoHanded && off != nil {
		return fmt.Errorf("you need both hands free, but you are holding %s", off.DisplayName())
	}
	return nil
}

// Wield moves item into the active hand. Nothing changes on failure.
func (w *Wield) Wield(item Item) error {
	if err := w.CanWield(item.TwoHanded); err != nil {
		return err
	}
	*w.slot(w.Active) = &item
	return nil
}

// SwapItems exchanges the contents of both hands.
func (w *Wield) SwapItems() {
	w.Left, w.Right = w.Right, w.Left
}

// SwitchActive makes the other hand active.
func (w *Wield) SwitchActive() {
	w.Active = w.Active.Other()
}

func (w *Wield) take(h Hand) (Item, bool) {
	s := w.slot(h)
	if *s == nil {
		return Item{}, false
	}
	item := **s
	*s = nil
	return item, true
}

// TakeFromActiveHand removes and returns the active hand's item.
func (w *Wield) TakeFromActiveHand() (Item, bool) {
	return w.take(w.Active)
}

// TakeFromOffHand removes and returns the off hand's item.
func (w *Wield) TakeFromOffHand() (Item, bool) {
	return w.take(w.Active.Other())
}

// HasQuality reports whether either held item lends q.
func (w *Wield) HasQuality(q Quality) bool {
	for _, it := range w.Items() {
		if it.HasQuality(q) {
			return true
		}
	}
	return false
}

// Dominant returns the hand handedness favours. Ambidextrous actors favour
// whichever hand is active.
func (w *Wield) Dominant(pref MainHand) Hand {
	switch pref {
	case LeftHanded:
		return LeftHand
	case RightHanded:
		return RightHand
	default:
		return w.Active
	}
}

// MainHand returns the item in the dominant hand, or nil.
func (w *Wield) MainHand(pref MainHand) *Item {
	return w.In(w.Dominant(pref))
}

// SecondHand returns the item in the non-dominant hand, or nil.
func (w *Wield) SecondHand(pref MainHand) *Item {
	return w.In(w.Dominant(pref).Other())
}

// Items returns copies of the held items, left hand first.
func (w *Wield) Items() []Item {
	var out []Item
	if w.Left != nil {
		out = append(out, *w.Left)
	}
	if w.Right != nil {
		out = append(out, *w.Right)
	}
	return out
}

// Empty reports whether both hands are free.
func (w *Wield) Empty() bool {
	return w.Left == nil && w.Right == nil
}
