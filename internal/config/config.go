package config

import (
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configurable settings of the command-line tools.
type Config struct {
	Workers   int    `mapstructure:"workers"`
	LogMode   string `mapstructure:"log_mode"`
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format"`
	Quality   int    `mapstructure:"quality"`

	Matte MatteConfig `mapstructure:"matte"`
	Cover CoverConfig `mapstructure:"cover"`
}

// MatteConfig drives the whole-image remover. Tolerance is 0-100.
type MatteConfig struct {
	Mode          string  `mapstructure:"mode"`
	Tolerance     float64 `mapstructure:"tolerance"`
	Feather       int     `mapstructure:"feather"`
	MinArea       int     `mapstructure:"min_area"`
	MaxDispersion float64 `mapstructure:"max_dispersion"`
	BgColor       string  `mapstructure:"bg_color"`
}

// CoverConfig drives matting of cover presets. Tolerance and feather
// are raw RGB distances.
type CoverConfig struct {
	RemoveBg      string  `mapstructure:"remove_bg"` // auto, on, off
	BgTolerance   float64 `mapstructure:"bg_tolerance"`
	BgFeather     float64 `mapstructure:"bg_feather"`
	MinArea       int     `mapstructure:"min_area"`
	FeatherPasses int     `mapstructure:"feather_passes"`
}

// Load reads an optional config file (JSON, YAML or TOML by extension)
// layered over defaults and COVERMATTE_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COVERMATTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", 0)
	v.SetDefault("log_mode", "release")
	v.SetDefault("output_dir", "")
	v.SetDefault("format", "png")
	v.SetDefault("quality", 90)

	v.SetDefault("matte.mode", "auto")
	v.SetDefault("matte.tolerance", 30)
	v.SetDefault("matte.feather", 3)
	v.SetDefault("matte.min_area", 100)
	v.SetDefault("matte.max_dispersion", 35)
	v.SetDefault("matte.bg_color", "")

	v.SetDefault("cover.remove_bg", "auto")
	v.SetDefault("cover.bg_tolerance", 22)
	v.SetDefault("cover.bg_feather", 8)
	v.SetDefault("cover.min_area", 0)
	v.SetDefault("cover.feather_passes", 0)
}

// Flags holds CLI flag values that override config file settings.
// Nil fields were not given on the command line.
type Flags struct {
	Workers   *int
	LogMode   *string
	OutputDir *string
	Format    *string
	Quality   *int

	Mode      *string
	Tolerance *float64
	Feather   *int
	MinArea   *int
	BgColor   *string

	RemoveBg      *string
	BgTolerance   *float64
	BgFeather     *float64
	CoverMinArea  *int
	FeatherPasses *int
}

// Resolve applies CLI overrides, then clamps values into range and fills
// anything still unset.
func (c *Config) Resolve(f Flags) {
	// CLI flags override config file
	setInt(&c.Workers, f.Workers)
	setString(&c.LogMode, f.LogMode)
	setString(&c.OutputDir, f.OutputDir)
	setString(&c.Format, f.Format)
	setInt(&c.Quality, f.Quality)

	setString(&c.Matte.Mode, f.Mode)
	setFloat(&c.Matte.Tolerance, f.Tolerance)
	setInt(&c.Matte.Feather, f.Feather)
	setInt(&c.Matte.MinArea, f.MinArea)
	setString(&c.Matte.BgColor, f.BgColor)

	setString(&c.Cover.RemoveBg, f.RemoveBg)
	setFloat(&c.Cover.BgTolerance, f.BgTolerance)
	setFloat(&c.Cover.BgFeather, f.BgFeather)
	setInt(&c.Cover.MinArea, f.CoverMinArea)
	setInt(&c.Cover.FeatherPasses, f.FeatherPasses)

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogMode == "" {
		c.LogMode = "release"
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = 90
	}
	if c.Matte.Mode == "" {
		c.Matte.Mode = "auto"
	}
	if c.Matte.MaxDispersion <= 0 {
		c.Matte.MaxDispersion = 35
	}
	if c.Cover.RemoveBg == "" {
		c.Cover.RemoveBg = "auto"
	}

	c.Matte.Tolerance = clampF(c.Matte.Tolerance, 0, 100)
	c.Matte.Feather = clampI(c.Matte.Feather, 0, 20)
	c.Matte.MinArea = clampI(c.Matte.MinArea, 0, 1<<30)
	c.Cover.BgTolerance = clampF(c.Cover.BgTolerance, 0, 255)
	c.Cover.BgFeather = clampF(c.Cover.BgFeather, 0, 64)
	c.Cover.MinArea = clampI(c.Cover.MinArea, 0, 1<<30)
	c.Cover.FeatherPasses = clampI(c.Cover.FeatherPasses, 0, 20)
}

// RemoveBackground decides matting for a preset whose default is def.
func (c CoverConfig) RemoveBackground(def bool) bool {
	switch strings.ToLower(c.RemoveBg) {
	case "on", "true", "yes":
		return true
	case "off", "false", "no":
		return false
	}
	return def
}

// Visited returns the names of flags given explicitly on the command line.
func Visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
