package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nathoo/boneyard/engine"
	"github.com/nathoo/boneyard/engine/dice"
)

// histogramWidth is the longest bar drawn for the most common total.
const histogramWidth = 40

type rollOptions struct {
	count   int
	explode bool
	seed    int64
}

func newRollCmd() *cobra.Command {
	var opts rollOptions
	cmd := &cobra.Command{
		Use:   "roll <notation>",
		Short: "Roll dice, e.g. 2d6 or 1d8+1d4",
		Long: `Roll a stack of dice. With -n greater than one, print the spread of totals.

  Example: boneyard roll 2d6 -n 10000 --explode`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := dice.Parse(args[0])
			if err != nil {
				return err
			}
			return runRoll(cmd.OutOrStdout(), stack, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of times to roll")
	cmd.Flags().BoolVarP(&opts.explode, "explode", "x", false, "reroll and add on the highest face")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	return cmd
}

func runRoll(w io.Writer, stack dice.Stack, opts rollOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", opts.count)
	}
	if opts.explode {
		for _, d := range stack.Dice {
			if d.Faces <= 1 {
				return fmt.Errorf("a %s never stops exploding", d)
			}
		}
	}
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := engine.NewRNG(seed)

	roll := stack.RollTotal
	if opts.explode {
		roll = stack.RollTotalExplosive
	}

	p := message.NewPrinter(language.English)
	if opts.count == 1 {
		p.Fprintf(w, "%s: %d\n", stack, roll(rng))
		return nil
	}

	totals := map[int]int{}
	sum, lo, hi := 0, 0, 0
	for i := 0; i < opts.count; i++ {
		t := roll(rng)
		totals[t]++
		sum += t
		if i == 0 || t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}

	p.Fprintf(w, "%s rolled %d times (seed %s)\n", stack, opts.count, strconv.FormatInt(seed, 10))
	p.Fprintf(w, "min %d, max %d, mean %.2f\n\n", lo, hi, float64(sum)/float64(opts.count))

	faces := make([]int, 0, len(totals))
	peak := 0
	for t, n := range totals {
		faces = append(faces, t)
		peak = max(peak, n)
	}
	sort.Ints(faces)
	for _, t := range faces {
		n := totals[t]
		bar := strings.Repeat("#", max(1, n*histogramWidth/peak))
		p.Fprintf(w, "%4d %8d  %s\n", t, n, bar)
	}
	return nil
}
