// Package profile loads named tuning profiles from a config directory.
// Profiles tune the motion math and feature toggles; out-of-range
// values are clamped with a warning rather than rejected, so a bad
// profile can never take the engine down.
package profile

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/viper"

	"github.com/padmux/padmux/internal/motion"
)

// DefaultName is the profile loaded when none is configured.
const DefaultName = "default"

// maxDeadZone caps the configurable dead zone below 0.3. Anything
// higher swallows most of the stick's travel.
const maxDeadZone = 0.29

// Profile is one named tuning set.
type Profile struct {
	Name string `mapstructure:"-"`

	Sensitivity float64 `mapstructure:"sensitivity"`
	DeadZone    float64 `mapstructure:"dead_zone"`
	// Precision scales Motion-mode cursor deltas; SlowFactor applies
	// on top while the slow-mode button is held.
	Precision  float64 `mapstructure:"precision"`
	SlowFactor float64 `mapstructure:"slow_factor"`

	Accel  []motion.CurvePoint   `mapstructure:"accel"`
	Scroll motion.ScrollSettings `mapstructure:"scroll"`
}

// Default returns the built-in profile.
func Default() Profile {
	return Profile{
		Name:        DefaultName,
		Sensitivity: 1.0,
		DeadZone:    0.1,
		Precision:   1.0,
		SlowFactor:  0.5,
		Scroll: motion.ScrollSettings{
			VerticalSpeed:   1.5,
			HorizontalSpeed: 1.5,
		},
	}
}

// Motion returns the cursor math settings derived from the profile.
func (p Profile) Motion() motion.Settings {
	return motion.Settings{
		Sensitivity: p.Sensitivity,
		DeadZone:    p.DeadZone,
		Accel:       motion.Curve{Points: p.Accel},
	}
}

func clampF(name string, v, lo, hi float64, profile string) float64 {
	if v < lo {
		log.Printf("Profile %s: %s %.3f below %.3f, clamped", profile, name, v, lo)
		return lo
	}
	if v > hi {
		log.Printf("Profile %s: %s %.3f above %.3f, clamped", profile, name, v, hi)
		return hi
	}
	return v
}

// sanitize clamps every tunable into its legal range and normalizes
// the acceleration curve.
func (p *Profile) sanitize() {
	p.Sensitivity = clampF("sensitivity", p.Sensitivity, 0.1, 10, p.Name)
	p.DeadZone = clampF("dead_zone", p.DeadZone, 0, maxDeadZone, p.Name)
	p.Precision = clampF("precision", p.Precision, 0.05, 1, p.Name)
	p.SlowFactor = clampF("slow_factor", p.SlowFactor, 0.05, 1, p.Name)
	p.Scroll.VerticalSpeed = clampF("scroll.vertical_speed", p.Scroll.VerticalSpeed, 0, 10, p.Name)
	p.Scroll.HorizontalSpeed = clampF("scroll.horizontal_speed", p.Scroll.HorizontalSpeed, 0, 10, p.Name)

	// Curve points sorted by input; outputs clamped non-negative.
	sort.Slice(p.Accel, func(i, j int) bool { return p.Accel[i].In < p.Accel[j].In })
	for i := range p.Accel {
		p.Accel[i].In = clampF("accel.in", p.Accel[i].In, 0, 1, p.Name)
		p.Accel[i].Out = clampF("accel.out", p.Accel[i].Out, 0, 10, p.Name)
	}
}

// Store loads profiles by name from a directory of config files.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. An empty dir means only the
// built-in default profile resolves.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the named profile. The built-in default is returned for
// DefaultName when no file overrides it. A missing profile is an
// error; a malformed value inside an existing profile is not.
func (s *Store) Load(name string) (Profile, error) {
	v := viper.New()
	v.SetConfigName(name)
	if s.dir != "" {
		v.AddConfigPath(s.dir)
	}

	def := Default()
	v.SetDefault("sensitivity", def.Sensitivity)
	v.SetDefault("dead_zone", def.DeadZone)
	v.SetDefault("precision", def.Precision)
	v.SetDefault("slow_factor", def.SlowFactor)
	v.SetDefault("scroll.vertical_speed", def.Scroll.VerticalSpeed)
	v.SetDefault("scroll.horizontal_speed", def.Scroll.HorizontalSpeed)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && name == DefaultName {
			return def, nil
		}
		return Profile{}, fmt.Errorf("profile %s: %w", name, err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", name, err)
	}
	p.Name = name
	p.sanitize()
	return p, nil
}
