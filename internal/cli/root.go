/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/matjam/smoothtft"
	"github.com/matjam/smoothtft/internal/cli/cmd"
	"github.com/matjam/smoothtft/internal/cli/cmd/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smoothtft",
	Short: "Animated widgets for small framebuffer displays",
	Long: `smoothtft drives a TFT framebuffer or OLED panel with animated
widgets: blinking icons, scrolling marquees and progress bars, eased by a
catalogue of transitions and controlled over a local socket.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, err := cmd.Flags().GetBool("show-config"); err == nil && v {
			allSettings := viper.AllSettings()

			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(allSettings)
			return
		}

		babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
		if v, err := cmd.Flags().GetBool("version"); err == nil && v {
			log.Infof("%v version %v © 2025 %v",
				babyBlue.Render("smoothtft "),
				green.Render(strings.Trim(smoothtft.Version, "\n\r ")),
				yellow.Render("Nathan Ollerenshaw"))
			return
		}

		if v, err := cmd.Flags().GetBool("installconfig"); err == nil && v {
			path, err := utils.InstallDefaultConfig(utils.ConfigDir())
			if err != nil {
				log.Fatalf("%v", err)
			}
			log.Infof("Installed default config file at %v", path)
			return
		}

		background, _ := cmd.Flags().GetBool("background")
		Start(background)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	RegisterFlags(rootCmd)

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(cmd.NewStopCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewWidgetCmd())
	rootCmd.AddCommand(cmd.NewTextCmd())
	rootCmd.AddCommand(cmd.NewColorCmd())
	rootCmd.AddCommand(cmd.NewValueCmd())
	rootCmd.AddCommand(cmd.NewCurvesCmd())
	rootCmd.AddCommand(cmd.NewGenManCmd(rootCmd))
}
