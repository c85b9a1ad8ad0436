package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nathoo/boneyard/engine/ranged"
	"github.com/nathoo/boneyard/engine/state"
)

func newRangeCmd() *cobra.Command {
	var weapon uint8
	cmd := &cobra.Command{
		Use:   "range <distance> | range <x,y> <x,y>",
		Short: "Classify a distance into a range band",
		Long: `Band a distance in tiles against a weapon's effective range and show the to-hit modifier.

  Example: boneyard range 5 --weapon 4
           boneyard range 1,1 6,4 --weapon 4`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			distance, err := parseDistance(args)
			if err != nil {
				return err
			}
			printRange(cmd.OutOrStdout(), distance, weapon)
			return nil
		},
	}
	cmd.Flags().Uint8VarP(&weapon, "weapon", "w", 1, "weapon range in tiles (1 for melee weapons)")
	return cmd
}

// parseDistance reads either a plain distance or two tile positions.
func parseDistance(args []string) (float64, error) {
	if len(args) == 1 {
		d, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid distance %q", args[0])
		}
		if d < 0 {
			return 0, fmt.Errorf("distance cannot be negative")
		}
		return d, nil
	}
	var from, to state.Position
	if err := from.UnmarshalText([]byte(args[0])); err != nil {
		return 0, err
	}
	if err := to.UnmarshalText([]byte(args[1])); err != nil {
		return 0, err
	}
	return ranged.Between(from.X, from.Y, to.X, to.Y), nil
}

func printRange(w io.Writer, distance float64, weapon uint8) {
	band := ranged.Define(distance, weapon)
	fmt.Fprintf(w, "distance %.2f, weapon range %d: %s\n", distance, weapon, band)
	if band.Reachable() {
		fmt.Fprintf(w, "to-hit modifier %+d\n", band.Modifier())
	} else {
		fmt.Fprintln(w, "out of reach")
	}
}
