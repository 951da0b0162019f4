package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothtft"
	"github.com/matjam/smoothtft/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// WidgetConfig holds the keys shared by every widget table.
type WidgetConfig struct {
	Name       string `mapstructure:"name"`
	X          int    `mapstructure:"x"`
	Y          int    `mapstructure:"y"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Background string `mapstructure:"background"`
	Autostart  bool   `mapstructure:"autostart"`
}

type BlinkConfig struct {
	WidgetConfig `mapstructure:",squash"`
	Icon         string  `mapstructure:"icon"`
	OnTime       float64 `mapstructure:"on_time"`
	OffTime      float64 `mapstructure:"off_time"`
}

type MarqueeConfig struct {
	WidgetConfig `mapstructure:",squash"`
	Text         string  `mapstructure:"text"`
	Color        string  `mapstructure:"color"`
	Step         int     `mapstructure:"step"`
	Interval     float64 `mapstructure:"interval"`
	Transition   string  `mapstructure:"transition"`
	Easing       string  `mapstructure:"easing"`
	Smooth       bool    `mapstructure:"smooth"`
	FontSize     float64 `mapstructure:"font_size"`
}

type ProgressConfig struct {
	WidgetConfig `mapstructure:",squash"`
	Value        float64 `mapstructure:"value"`
	Color        string  `mapstructure:"color"`
	Duration     float64 `mapstructure:"duration"`
	Interval     float64 `mapstructure:"interval"`
	Transition   string  `mapstructure:"transition"`
	Easing       string  `mapstructure:"easing"`
}

type I2CConfig struct {
	Bus     string `mapstructure:"bus"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
	Rotated bool   `mapstructure:"rotated"`
}

// Config is the resolved daemon configuration. Times are in seconds.
type Config struct {
	Output      types.OutputMode `mapstructure:"output"`
	Framebuffer string           `mapstructure:"framebuffer"`
	FPS         float64          `mapstructure:"fps"`
	Background  string           `mapstructure:"background"`
	Font        string           `mapstructure:"font"`
	FontSize    float64          `mapstructure:"font_size"`
	Snapshot    string           `mapstructure:"snapshot"`
	Width       int              `mapstructure:"width"`
	Height      int              `mapstructure:"height"`
	I2C         I2CConfig        `mapstructure:"i2c"`

	Blink    []BlinkConfig    `mapstructure:"blink"`
	Marquee  []MarqueeConfig  `mapstructure:"marquee"`
	Progress []ProgressConfig `mapstructure:"progress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", string(types.OutputFramebuffer))
	v.SetDefault("framebuffer", "")
	v.SetDefault("fps", 0)
	v.SetDefault("background", "#808080")
	v.SetDefault("font", "")
	v.SetDefault("font_size", 18)
	v.SetDefault("socket", "")
	v.SetDefault("snapshot", "")
	v.SetDefault("width", 320)
	v.SetDefault("height", 240)
	v.SetDefault("i2c.bus", "")
	v.SetDefault("i2c.width", 128)
	v.SetDefault("i2c.height", 64)
	v.SetDefault("i2c.rotated", false)
	v.SetDefault("debug", false)
}

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("smoothtft")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/smoothtft")
		viper.AddConfigPath("/etc/xdg/smoothtft")
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("smoothtft")
	viper.AutomaticEnv() // read environment variables that match

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		log.Debug("No config file found, using the built-in defaults")
		err = viper.ReadConfig(strings.NewReader(smoothtft.DefaultConfig))
	}
	cobra.CheckErr(err)

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
}

// LoadConfig resolves the settings in v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	switch cfg.Output {
	case types.OutputFramebuffer, types.OutputSSD1306, types.OutputMemory:
	default:
		return nil, fmt.Errorf("unknown output %q", cfg.Output)
	}
	if cfg.FPS < 0 {
		return nil, fmt.Errorf("fps must not be negative, got %v", cfg.FPS)
	}
	if cfg.FontSize <= 0 {
		return nil, fmt.Errorf("font_size must be positive, got %v", cfg.FontSize)
	}
	return &cfg, nil
}
