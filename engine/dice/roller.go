package dice

import (
	"fmt"

	toolkit "github.com/KirkDiggler/rpg-toolkit/dice"
)

// Roller returns a toolkit Roller drawing from src. Every face rolled
// through it advances src exactly once.
func Roller(src Source) toolkit.Roller {
	if r, ok := src.(toolkit.Roller); ok {
		return r
	}
	return sourceRoller{src: src}
}

type sourceRoller struct {
	src Source
}

func (r sourceRoller) Roll(size int) (int, error) {
	if size < 1 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	return r.src.Intn(size) + 1, nil
}

func (r sourceRoller) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid dice count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
