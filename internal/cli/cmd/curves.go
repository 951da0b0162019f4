package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matjam/smoothtft/internal/transitions"
	"github.com/matjam/smoothtft/internal/types"
	"github.com/spf13/cobra"
)

const curveWidth = 40

func NewCurvesCmd() *cobra.Command {
	curvesCmd := &cobra.Command{
		Use:   "curves [KIND]",
		Short: "Print sampled transition curves",
		Long: `Prints the value of each transition curve at evenly spaced
progress points. Without KIND every curve is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			samples, _ := cmd.Flags().GetInt("samples")
			if samples < 2 {
				return fmt.Errorf("need at least 2 samples, got %d", samples)
			}
			if !types.EasingMode(mode).Valid() {
				return fmt.Errorf("unknown easing mode %q", mode)
			}

			kinds := transitions.Kinds()
			if len(args) == 1 {
				k, err := transitions.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []transitions.Kind{k}
			}

			for _, k := range kinds {
				printCurve(cmd.OutOrStdout(), transitions.Transition{Kind: k, Mode: types.EasingMode(mode)}, samples)
			}
			return nil
		},
	}
	curvesCmd.Flags().StringP("mode", "m", string(types.EasingEaseIn), "easing mode: ease-in, ease-out or ease-in-out")
	curvesCmd.Flags().IntP("samples", "n", 11, "number of samples")
	return curvesCmd
}

func printCurve(w io.Writer, t transitions.Transition, samples int) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))

	fmt.Fprintln(w, title.Render(t.String()))
	for i := 0; i < samples; i++ {
		p := float64(i) / float64(samples-1)
		v := t.At(p)
		n := int(math.Round(math.Max(0, math.Min(1.5, v)) * curveWidth))
		fmt.Fprintf(w, "  %.2f  %8.4f  %s\n", p, v, bar.Render(strings.Repeat("#", n)))
	}
}
