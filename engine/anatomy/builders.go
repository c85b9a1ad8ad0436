package anatomy

// BuildBody assembles the body plan matching the profile's race.
func BuildBody(p Profile) Body {
	if p.Race.Shape() == Canine {
		return NewDogBody(p.OrganData())
	}
	return NewHumanoidBody(p.OrganData())
}

// NewDogBody builds a canine body. Every part receives a copy of data.
func NewDogBody(data OrganData) Body {
	part := func(role Role, side Side, hind bool) BodyPart {
		return NewPart("", PartType{Shape: Canine, Role: role, Side: side, Hind: hind}, data)
	}

	head := part(Head, Center, false).
		WithOutside(
			part(Eye, Left, false),
			part(Eye, Right, false),
			part(Ear, Left, false),
			part(Ear, Right, false),
			part(Maw, Center, false),
		).
		WithInside(part(Brain, Center, false))

	torso := part(Torso, Center, false).
		WithOutside(
			head,
			part(Paw, Left, false),
			part(Paw, Right, false),
			part(Paw, Left, true),
			part(Paw, Right, true),
			part(Tail, Center, false),
		).
		WithInside(organs(Canine, data)...)

	return NewBody(torso)
}

// NewHumanoidBody builds a two-armed, two-legged body. Lizardmen also get
// a tail.
func NewHumanoidBody(data OrganData) Body {
	part := func(role Role, side Side) BodyPart {
		return NewPart("", PartType{Shape: Humanoid, Role: role, Side: side}, data)
	}
	limb := func(role, end Role, side Side) BodyPart {
		return part(role, side).WithOutside(part(end, side))
	}

	head := part(Head, Center).
		WithOutside(
			part(Eye, Left),
			part(Eye, Right),
			part(Ear, Left),
			part(Ear, Right),
			part(Nose, Center),
			part(Mouth, Center),
		).
		WithInside(part(Brain, Center))

	torso := part(Torso, Center).
		WithOutside(
			head,
			limb(Arm, Hand, Left),
			limb(Arm, Hand, Right),
			limb(Leg, Foot, Left),
			limb(Leg, Foot, Right),
		).
		WithInside(organs(Humanoid, data)...)

	if data.Race == Lizardman {
		torso = torso.WithOutside(part(Tail, Center))
	}

	return NewBody(torso)
}

// organs returns the torso organs shared by every body plan.
func organs(shape Shape, data OrganData) []BodyPart {
	organ := func(role Role, side Side) BodyPart {
		return NewPart("", PartType{Shape: shape, Role: role, Side: side}, data)
	}
	return []BodyPart{
		organ(Heart, Center),
		organ(Lung, Left),
		organ(Lung, Right),
		organ(Stomach, Center),
		organ(Liver, Center),
		organ(Kidney, Left),
		organ(Kidney, Right),
		organ(Intestines, Center),
	}
}
