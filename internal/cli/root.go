package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/photodrift/photodrift"
	"github.com/photodrift/photodrift/internal/cli/cmd"
	"github.com/photodrift/photodrift/internal/cli/cmd/utils"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photodrift",
	Short: "A fullscreen photo slideshow with animated transitions",
	Long: `Photodrift cycles through your photo folders fullscreen, with
crossfade, slide, zoom, carousel, mosaic and pixelate transitions, a slow
pan-and-zoom drift on each photo, and an optional weather and metadata
overlay.`,
	Run: func(c *cobra.Command, args []string) {
		if v, err := c.Flags().GetBool("show-config"); err == nil && v {
			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(viper.AllSettings())
			return
		}

		if v, err := c.Flags().GetBool("installconfig"); err == nil && v {
			utils.InstallDefaultConfig()
			return
		}

		babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
		if v, err := c.Flags().GetBool("version"); err == nil && v {
			log.Infof("%v version %v",
				babyBlue.Render("photodrift"),
				green.Render(strings.Trim(photodrift.Version, "\n\r ")))
			return
		}

		cmd.StartViewer(c)
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

var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/photodrift/photodrift.json)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().BoolP("installconfig", "i", false, "Install a default config file")
	rootCmd.PersistentFlags().Bool("show-config", false, "Dump resolved config")
	rootCmd.PersistentFlags().BoolP("background", "b", false, "Run as a daemon")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Print version")
	rootCmd.PersistentFlags().BoolP("help", "h", false, "Print usage")

	rootCmd.AddCommand(cmd.NewStartCmd())
	rootCmd.AddCommand(cmd.NewStopCmd())
	rootCmd.AddCommand(cmd.NewNextCmd())
	rootCmd.AddCommand(cmd.NewPrevCmd())
	rootCmd.AddCommand(cmd.NewPauseCmd())
	rootCmd.AddCommand(cmd.NewResumeCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewGenManCmd(rootCmd))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("photodrift")
		viper.SetConfigType("json")
		if viper.GetString("config") != "" {
			viper.SetConfigFile(viper.GetString("config"))
		} else {
			viper.AddConfigPath("$HOME/.config/photodrift")
			viper.AddConfigPath("/etc/xdg/photodrift")
		}
	}

	viper.SetDefault("folders", []string{"~/Pictures"})
	viper.SetDefault("shuffle", true)
	viper.SetDefault("duration", 10)
	viper.SetDefault("motion", true)
	viper.SetDefault("transitions", []string{"crossfade", "slide", "zoom", "carousel", "mosaic", "pixelate"})
	viper.SetDefault("folder_font_size", 24)
	viper.SetDefault("file_font_size", 24)
	viper.SetDefault("date_font_size", 18)
	viper.SetDefault("weather_font_size", 18)
	viper.SetDefault("night_start", "")
	viper.SetDefault("night_end", "")
	viper.SetDefault("weather", false)
	viper.SetDefault("weather_api_key", "")
	viper.SetDefault("weather_location", "")
	viper.SetDefault("weather_units", "metric")
	viper.SetDefault("refresh_minutes", 30)
	viper.SetDefault("framerate_limit", 60)
	viper.SetDefault("debug", false)

	viper.AutomaticEnv() // read environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Warnf("No config file found, using defaults. Run with --installconfig to create one.")
		} else {
			cobra.CheckErr(err)
		}
	}

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
}
