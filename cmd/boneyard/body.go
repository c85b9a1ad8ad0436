package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/nathoo/boneyard/engine/anatomy"
)

var (
	styleOrgan = lipgloss.NewStyle().Foreground(lipgloss.Color("174"))
	styleRoot  = lipgloss.NewStyle().Bold(true)
)

type bodyOptions struct {
	race, sex, skin, fur string
	age                  uint8
	decay                int
	dead                 bool
}

func newBodyCmd() *cobra.Command {
	var opts bodyOptions
	cmd := &cobra.Command{
		Use:   "body",
		Short: "Print the anatomy tree of a creature",
		Long: `Build a body for a race and print its parts, organs marked inside their parent.

  Example: boneyard body --race dog --fur spotted --dead --decay 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.profile()
			if err != nil {
				return err
			}
			body := anatomy.BuildBody(p)
			if opts.dead || opts.decay > 0 {
				body.Kill()
			}
			for i := 0; i < opts.decay; i++ {
				body.Decay()
			}
			printBody(cmd.OutOrStdout(), p, &body)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.race, "race", "human", "human, gnome, lizardman or dog")
	f.StringVar(&opts.sex, "sex", "male", "male, female or other")
	f.Uint8Var(&opts.age, "age", 30, "age in years")
	f.StringVar(&opts.skin, "skin", "", "skin tone (defaults by race)")
	f.StringVar(&opts.fur, "fur", "", "fur colour for furred races")
	f.BoolVar(&opts.dead, "dead", false, "show the body as a corpse")
	f.IntVar(&opts.decay, "decay", 0, "decay steps to apply after death")
	return cmd
}

func (o bodyOptions) profile() (anatomy.Profile, error) {
	race, ok := anatomy.ParseRace(o.race)
	if !ok {
		return anatomy.Profile{}, fmt.Errorf("unknown race %q", o.race)
	}
	sex, ok := anatomy.ParseSex(o.sex)
	if !ok {
		return anatomy.Profile{}, fmt.Errorf("unknown sex %q", o.sex)
	}
	p := anatomy.Profile{Race: race, Sex: sex, Age: o.age, Skin: anatomy.Fair}
	if race == anatomy.Lizardman {
		p.Skin = anatomy.GreenScaled
	}
	if o.skin != "" {
		skin, ok := anatomy.ParseSkinTone(o.skin)
		if !ok {
			return anatomy.Profile{}, fmt.Errorf("unknown skin tone %q", o.skin)
		}
		p.Skin = skin
	}
	if o.fur != "" {
		if !race.Furred() {
			return anatomy.Profile{}, fmt.Errorf("a %s has no fur", race)
		}
		fur, ok := anatomy.ParseFurColor(o.fur)
		if !ok {
			return anatomy.Profile{}, fmt.Errorf("unknown fur colour %q", o.fur)
		}
		p.Fur = &fur
	}
	return p, nil
}

func printBody(w io.Writer, p anatomy.Profile, b *anatomy.Body) {
	noun := anatomy.AgeName(p.Race, p.Sex, p.Age)
	fmt.Fprintf(w, "%s %s, aged %d, mass %.0f\n", p.Sex, noun, p.Age, b.Mass())
	for _, at := range b.Offsets() {
		part, ok := b.Part(at)
		if !ok {
			continue
		}
		fmt.Fprintln(w, partTree(part).String())
	}
}

// partTree renders a part with its external parts first and its organs
// after them.
func partTree(p anatomy.BodyPart) *tree.Tree {
	t := tree.Root(styleRoot.Render(p.DisplayName())).Enumerator(tree.RoundedEnumerator)
	for _, c := range p.Outside {
		t.Child(childNode(c, false))
	}
	for _, c := range p.Inside {
		t.Child(childNode(c, true))
	}
	return t
}

func childNode(p anatomy.BodyPart, inside bool) any {
	label := p.DisplayName()
	if inside {
		label = styleOrgan.Render(label + " (inside)")
	}
	if len(p.Outside) == 0 && len(p.Inside) == 0 {
		return label
	}
	t := partTree(p)
	t.Root(label)
	return t
}
