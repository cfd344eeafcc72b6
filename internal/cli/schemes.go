package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/picturepalette/internal/colour"
)

// sampleColours is the dominant set shown in the preview column.
var sampleColours = colour.DominantColorSet{
	{R: 200, G: 40, B: 40},
	{R: 30, G: 160, B: 90},
	{R: 20, G: 40, B: 180},
	{R: 128, G: 128, B: 128},
	{R: 250, G: 230, B: 200},
}

func newSchemesCmd() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "List palette schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"SCHEME", "DESCRIPTION"}
			if preview {
				headers = append(headers, "SAMPLE")
			}
			table := NewTable(headers)

			for i, s := range colour.ValidSchemes() {
				name := string(s)
				if i == 0 {
					name += " (default)"
				}
				row := []string{name, s.Description()}
				if preview {
					gen, err := colour.NewGenerator(s)
					if err != nil {
						return err
					}
					row = append(row, swatchRow(gen.FromDominant(sampleColours)))
				}
				table.AddRow(row)
			}

			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "show each scheme applied to a sample set")
	return cmd
}

func swatchRow(p colour.Palette) string {
	blocks := make([]string, len(p))
	for i, c := range p {
		blocks[i] = colour.ColourPreviewWithText(c, strconv.Itoa(i+1), 3)
	}
	return strings.Join(blocks, "")
}
