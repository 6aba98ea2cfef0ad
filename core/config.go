// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
)

// Environment variables read by ConfigurationFromEnv
const (
	EnvColor       = "VKFETCH_COLOR"
	EnvLogo        = "VKFETCH_LOGO"
	EnvDebug       = "VKFETCH_DEBUG"
	EnvAPIVersions = "VKFETCH_API_VERSIONS"
)

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Configuration defines the global vkfetch configuration
type Configuration struct {
	Instance InstanceConfiguration
	Output   OutputConfiguration
}

// InstanceConfiguration is used to configure the API instance
type InstanceConfiguration struct {
	// DebugMode loads the validation layers
	DebugMode  bool
	Extensions []string
	Layers     []string

	// APIVersions are tried in order until an instance
	// can be created with one of them
	APIVersions []uint32
}

// OutputConfiguration is used to configure the report
type OutputConfiguration struct {
	JSON    bool
	Color   string
	Logo    bool
	Host    bool
	Verbose bool
}

// DefaultAPIVersions lists the API versions tried by default, newest first.
var DefaultAPIVersions = []uint32{
	MakeVersion(1, 3, 0),
	MakeVersion(1, 2, 0),
	MakeVersion(1, 1, 0),
	MakeVersion(1, 0, 0),
}

// DefaultConfiguration returns the configuration used when nothing is set
func DefaultConfiguration() Configuration {
	return Configuration{
		Instance: InstanceConfiguration{
			Extensions:  []string{},
			Layers:      []string{},
			APIVersions: append([]uint32(nil), DefaultAPIVersions...),
		},
		Output: OutputConfiguration{
			Color: ColorAuto,
			Logo:  true,
		},
	}
}

// ConfigurationFromEnv returns the default configuration overridden
// by environment variables. A .env file in the working directory is
// honoured as well.
func ConfigurationFromEnv() (Configuration, error) {
	cfg := DefaultConfiguration()

	cfg.Output.Color = strings.ToLower(envy.Get(EnvColor, cfg.Output.Color))

	logo, err := strconv.ParseBool(envy.Get(EnvLogo, strconv.FormatBool(cfg.Output.Logo)))
	if err != nil {
		return cfg, fmt.Errorf("%s: %s", EnvLogo, err)
	}
	cfg.Output.Logo = logo

	debug, err := strconv.ParseBool(envy.Get(EnvDebug, strconv.FormatBool(cfg.Instance.DebugMode)))
	if err != nil {
		return cfg, fmt.Errorf("%s: %s", EnvDebug, err)
	}
	cfg.Instance.DebugMode = debug

	if versions := envy.Get(EnvAPIVersions, ""); versions != "" {
		parsed, err := ParseAPIVersions(versions)
		if err != nil {
			return cfg, fmt.Errorf("%s: %s", EnvAPIVersions, err)
		}
		cfg.Instance.APIVersions = parsed
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values that cannot work
func (c Configuration) Validate() error {
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown colour mode %q, expected %s, %s or %s", c.Output.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if len(c.Instance.APIVersions) == 0 {
		return fmt.Errorf("at least one API version is required")
	}
	return nil
}

// MakeVersion packs a version number the way the Vulkan API expects it.
func MakeVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

// ParseAPIVersions parses a comma separated list like "1.3,1.2.198".
func ParseAPIVersions(list string) ([]uint32, error) {
	var versions []uint32
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		nodes := strings.Split(item, ".")
		if len(nodes) < 2 || len(nodes) > 3 {
			return nil, fmt.Errorf("malformed API version %q", item)
		}
		var parts [3]uint32
		for idx, node := range nodes {
			num, err := strconv.ParseUint(node, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed API version %q: %s", item, err)
			}
			parts[idx] = uint32(num)
		}
		if parts[0] > 0x7F || parts[1] > 0x3FF || parts[2] > 0xFFF {
			return nil, fmt.Errorf("API version %q out of range", item)
		}
		versions = append(versions, MakeVersion(parts[0], parts[1], parts[2]))
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no API versions in %q", list)
	}
	return versions, nil
}
