package anatomy

// AgeName returns the noun used for a creature of the given race, sex and
// age: "baby", "girl", "man" and so on. Non-human species use their own
// noun once past infancy; dogs are always "dog".
func AgeName(race Race, sex Sex, age uint8) string {
	switch race {
	case Dog:
		return "dog"
	case Human:
		return humanAgeName(sex, age)
	default:
		if age <= 3 {
			return "baby"
		}
		return race.String()
	}
}

func humanAgeName(sex Sex, age uint8) string {
	switch {
	case age <= 3:
		return "baby"
	case age <= 15:
		switch sex {
		case Male:
			return "boy"
		case Female:
			return "girl"
		default:
			return "child"
		}
	default:
		switch sex {
		case Male:
			return "man"
		case Female:
			return "woman"
		default:
			return "human"
		}
	}
}
