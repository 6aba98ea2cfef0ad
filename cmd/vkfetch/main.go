// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/devblok/vkfetch/art"
	"github.com/devblok/vkfetch/core"
	"github.com/devblok/vkfetch/device"
	"github.com/devblok/vkfetch/report"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	cfg, err := core.ConfigurationFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	bindFlags(flags, &cfg)
	flags.Parse(os.Args[1:])

	if cfg.Output.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	color.NoColor = !colorEnabled(cfg.Output.Color, term.IsTerminal(int(os.Stdout.Fd())))

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func bindFlags(flags *flag.FlagSet, cfg *core.Configuration) {
	flags.BoolVar(&cfg.Output.JSON, "json", cfg.Output.JSON, "Print devices as JSON")
	flags.StringVar(&cfg.Output.Color, "color", cfg.Output.Color, "Colour output: auto, always or never")
	flags.BoolVar(&cfg.Output.Logo, "logo", cfg.Output.Logo, "Print the vendor logo")
	flags.BoolVar(&cfg.Output.Host, "host", cfg.Output.Host, "Print a host platform header")
	flags.BoolVar(&cfg.Instance.DebugMode, "vkdbg", cfg.Instance.DebugMode, "Load Vulkan validation layers")
	flags.BoolVar(&cfg.Output.Verbose, "v", cfg.Output.Verbose, "Verbose logging")
}

func colorEnabled(mode string, terminal bool) bool {
	switch mode {
	case core.ColorAlways:
		return true
	case core.ColorNever:
		return false
	default:
		return terminal
	}
}

func run(cfg core.Configuration, w io.Writer) error {
	instance, err := core.NewVulkanInstance(core.DefaultVulkanApplicationInfo, cfg.Instance)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	log.WithFields(log.Fields{
		"api":     device.DecodeVersion(instance.APIVersion()),
		"devices": len(instance.Devices()),
	}).Debug("enumerated physical devices")

	return fetch(instance, cfg.Output, w)
}

func fetch(instance core.Instance, out core.OutputConfiguration, w io.Writer) error {
	if out.Host && !out.JSON {
		info, err := report.HostInfo()
		if err != nil {
			log.WithError(err).Warn("host information unavailable")
		} else if err := report.Host(w, info); err != nil {
			return err
		}
	}

	var devices []device.PhysicalDevice
	for _, h := range instance.Devices() {
		pd, err := device.Build(instance, h)
		if err != nil {
			return fmt.Errorf("device %d: %w", h, err)
		}
		log.WithField("device", pd.DeviceName).Debug("device normalized")

		if out.JSON {
			devices = append(devices, pd)
			continue
		}

		var logo []string
		if out.Logo {
			if logo, err = art.Logo(pd.Vendor); err != nil {
				return err
			}
		}
		if err := report.Render(w, logo, report.Lines(pd)); err != nil {
			return err
		}
	}

	if out.JSON {
		return report.JSON(w, devices)
	}
	return nil
}
