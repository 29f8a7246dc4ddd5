// Package profiles overlays named encode parameter sets onto the loaded
// configuration.
//
// A profiles file is a YAML map from profile name to the subset of video
// and audio settings it overrides, letting one config file serve several
// target devices.
package profiles

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"recut/internal/config"
	"recut/internal/services"
)

// Profile holds encode parameter overrides. Nil fields leave the configured
// value untouched.
type Profile struct {
	Container     *string  `yaml:"container"`
	Flavor        *string  `yaml:"flavor"`
	Codec         *string  `yaml:"codec"`
	Preset        *string  `yaml:"preset"`
	CRF           *int     `yaml:"crf"`
	BitrateK      *int     `yaml:"bitrate_kbps"`
	TwoPass       *bool    `yaml:"two_pass"`
	Resolution    *string  `yaml:"resolution"`
	AudioEncoder  *string  `yaml:"audio_encoder"`
	AudioBitrateK *int     `yaml:"audio_bitrate_kbps"`
	AudioQuality  *float64 `yaml:"audio_quality"`
}

// Set is a named collection of profiles loaded from one file.
type Set map[string]Profile

// Load reads a profiles file. A missing path yields an empty set so the
// feature stays optional.
func Load(path string) (Set, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: parse profiles %s: %v", services.ErrConfiguration, path, err)
	}
	return set, nil
}

// Names returns the profile names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply overlays the named profile onto cfg and revalidates the result.
// An empty name is a no-op; an unknown name is a configuration error.
func Apply(cfg *config.Config, set Set, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	profile, ok := set[name]
	if !ok {
		return fmt.Errorf("%w: unknown encode profile %q (have: %s)",
			services.ErrConfiguration, name, strings.Join(set.Names(), ", "))
	}

	if profile.Container != nil {
		cfg.Video.Container = strings.ToLower(strings.TrimSpace(*profile.Container))
	}
	if profile.Flavor != nil {
		cfg.Video.Flavor = strings.ToLower(strings.TrimSpace(*profile.Flavor))
	}
	if profile.Codec != nil {
		cfg.Video.Codec = strings.ToLower(strings.TrimSpace(*profile.Codec))
	}
	if profile.Preset != nil {
		cfg.Video.Preset = strings.TrimSpace(*profile.Preset)
	}
	if profile.CRF != nil {
		cfg.Video.CRF = *profile.CRF
	}
	if profile.BitrateK != nil {
		cfg.Video.BitrateK = *profile.BitrateK
	}
	if profile.TwoPass != nil {
		cfg.Video.TwoPass = *profile.TwoPass
	}
	if profile.Resolution != nil {
		cfg.Video.Resolution = strings.ToLower(strings.TrimSpace(*profile.Resolution))
	}
	if profile.AudioEncoder != nil {
		cfg.Audio.Encoder = strings.ToLower(strings.TrimSpace(*profile.AudioEncoder))
	}
	if profile.AudioBitrateK != nil {
		cfg.Audio.BitrateK = *profile.AudioBitrateK
	}
	if profile.AudioQuality != nil {
		cfg.Audio.Quality = *profile.AudioQuality
	}

	return cfg.Validate()
}
