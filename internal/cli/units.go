package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quiver/pkg/units"
)

// unitsCommand lists the unit symbols accepted in scale strings.
func (c *CLI) unitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the length units accepted in scales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printUnitsHeader()
			for _, u := range units.All() {
				printUnit(u.String(), u.Name(), u.Class().String(),
					fmt.Sprintf("%s %s", strconv.FormatFloat(u.Multiplier(), 'g', 8, 64), u.InternalName()))
			}
			printNewline()
			printDetail("Plot units draw straight vectors; distance units draw geovectors on geographic grids.")
			return nil
		},
	}
}
