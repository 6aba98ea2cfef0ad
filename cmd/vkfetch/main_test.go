// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"

	"github.com/devblok/vkfetch/core"
	"github.com/devblok/vkfetch/device"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInstance serves one device per vendor ID.
type fakeInstance struct {
	vendors []uint32
}

func (f *fakeInstance) Devices() []device.Handle {
	handles := make([]device.Handle, len(f.vendors))
	for idx := range handles {
		handles[idx] = device.Handle(idx)
	}
	return handles
}

func (f *fakeInstance) CoreProperties(h device.Handle) (device.CoreProperties, error) {
	name := make([]byte, 256)
	copy(name, fmt.Sprintf("GPU %d", h))
	return device.CoreProperties{
		DeviceName: name,
		DeviceType: 1,
		VendorID:   f.vendors[h],
		APIVersion: core.MakeVersion(1, 2, 0),
	}, nil
}

func (f *fakeInstance) ChainedProperties(h device.Handle, out ...device.ChainedProperty) error {
	for _, slot := range out {
		switch s := slot.(type) {
		case *device.DriverProperties:
			s.DriverName = []byte("fake\x00")
			s.DriverInfo = []byte("1.0\x00")
		case *device.MemoryProperties:
			s.Heaps = []device.MemoryHeap{{Size: 8 << 30, Flags: device.HeapDeviceLocal}}
		case *device.MemoryBudget:
			s.HeapBudget = []uint64{6 << 30}
		}
	}
	return nil
}

func (f *fakeInstance) QueueFamilies(device.Handle) ([]device.QueueFamily, error) {
	return []device.QueueFamily{{Flags: device.QueueGraphics | device.QueueCompute, Count: 1}}, nil
}

func (f *fakeInstance) Extensions(device.Handle) ([]string, error) {
	return nil, nil
}

func (f *fakeInstance) APIVersion() uint32           { return core.MakeVersion(1, 3, 0) }
func (f *fakeInstance) InstanceExtensions() []string { return nil }
func (f *fakeInstance) Destroy()                     {}

func init() {
	color.NoColor = true
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, colorEnabled(core.ColorAlways, false))
	assert.False(t, colorEnabled(core.ColorNever, true))
	assert.True(t, colorEnabled(core.ColorAuto, true))
	assert.False(t, colorEnabled(core.ColorAuto, false))
}

func TestBindFlags(t *testing.T) {
	cfg := core.DefaultConfiguration()
	flags := flag.NewFlagSet("vkfetch", flag.ContinueOnError)
	bindFlags(flags, &cfg)

	require.NoError(t, flags.Parse([]string{"-json", "-color", "never", "-logo=false", "-vkdbg", "-v"}))
	assert.True(t, cfg.Output.JSON)
	assert.Equal(t, core.ColorNever, cfg.Output.Color)
	assert.False(t, cfg.Output.Logo)
	assert.True(t, cfg.Instance.DebugMode)
	assert.True(t, cfg.Output.Verbose)
	assert.False(t, cfg.Output.Host)
}

func TestFetchText(t *testing.T) {
	var buf bytes.Buffer
	instance := &fakeInstance{vendors: []uint32{uint32(device.Intel), uint32(device.AMD)}}
	out := core.DefaultConfiguration().Output

	require.NoError(t, fetch(instance, out, &buf))
	text := buf.String()
	first := strings.Index(text, "GPU 0 : Integrated GPU")
	second := strings.Index(text, "GPU 1 : Integrated GPU")
	require.True(t, first >= 0 && second > first, "devices out of order:\n%s", text)
	assert.Contains(t, text, "Driver: fake : 1.0")
	assert.Contains(t, text, "VRAM: 2.0 GiB / 8.0 GiB (25.0%)")
}

func TestFetchJSON(t *testing.T) {
	var buf bytes.Buffer
	instance := &fakeInstance{vendors: []uint32{uint32(device.Nvidia)}}
	out := core.DefaultConfiguration().Output
	out.JSON = true

	require.NoError(t, fetch(instance, out, &buf))
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "GPU 0", decoded[0]["device_name"])
	assert.Equal(t, "Nvidia", decoded[0]["vendor"])
	chars := decoded[0]["characteristics"].(map[string]interface{})
	assert.Contains(t, chars, "sm")
}

func TestFetchUnknownVendorAborts(t *testing.T) {
	var buf bytes.Buffer
	instance := &fakeInstance{vendors: []uint32{uint32(device.Intel), 0xBEEF, uint32(device.AMD)}}
	out := core.DefaultConfiguration().Output

	err := fetch(instance, out, &buf)
	var unknown *device.UnknownVendorError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint32(0xBEEF), unknown.VendorID)
	assert.Contains(t, buf.String(), "GPU 0")
	assert.NotContains(t, buf.String(), "GPU 2")
}
