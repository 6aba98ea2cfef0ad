// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device_test

import (
	"fmt"

	"github.com/devblok/vkfetch/device"
)

// fakeQuerier answers queries from canned data and records the calls made.
type fakeQuerier struct {
	core         device.CoreProperties
	driver       device.DriverProperties
	memory       device.MemoryProperties
	budget       device.MemoryBudget
	shaderCore   device.ShaderCorePropertiesAMD
	smBuiltins   device.ShaderSMBuiltinsPropertiesNV
	families     []device.QueueFamily
	extensions   []string
	errs         map[string]error
	calls        []string
	chainedKinds []device.PropertyKind
}

func cstr(s string) []byte {
	native := make([]byte, 256)
	copy(native, s)
	return native
}

func newFake(vendorID uint32) *fakeQuerier {
	return &fakeQuerier{
		core: device.CoreProperties{
			DeviceName: cstr("Test GPU"),
			DeviceType: 2,
			VendorID:   vendorID,
			DeviceID:   0x73BF,
			APIVersion: (1 << 22) | (3 << 12) | 250,
			Limits: device.Limits{
				MaxImageDimension2D:            16384,
				MaxComputeSharedMemorySize:     65536,
				MaxComputeWorkGroupInvocations: 1024,
			},
		},
		driver: device.DriverProperties{
			DriverName: cstr("radv"),
			DriverInfo: cstr("Mesa 24.0.5"),
		},
		memory: device.MemoryProperties{
			Heaps: []device.MemoryHeap{
				{Size: 32 << 30},
				{Size: 10 << 30, Flags: device.HeapDeviceLocal},
			},
		},
		budget: device.MemoryBudget{
			HeapBudget: []uint64{30 << 30, 8 << 30},
			HeapUsage:  []uint64{1 << 30, 2 << 30},
		},
		families: []device.QueueFamily{
			{Flags: device.QueueGraphics | device.QueueCompute | device.QueueTransfer, Count: 1},
		},
		errs: make(map[string]error),
	}
}

func (f *fakeQuerier) record(call string) error {
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeQuerier) CoreProperties(h device.Handle) (device.CoreProperties, error) {
	if err := f.record("CoreProperties"); err != nil {
		return device.CoreProperties{}, err
	}
	return f.core, nil
}

func (f *fakeQuerier) ChainedProperties(h device.Handle, out ...device.ChainedProperty) error {
	if err := f.record("ChainedProperties"); err != nil {
		return err
	}
	for _, p := range out {
		f.chainedKinds = append(f.chainedKinds, p.Kind())
		switch p := p.(type) {
		case *device.DriverProperties:
			*p = f.driver
		case *device.MemoryProperties:
			*p = f.memory
		case *device.MemoryBudget:
			*p = f.budget
		case *device.ShaderCorePropertiesAMD:
			*p = f.shaderCore
		case *device.ShaderSMBuiltinsPropertiesNV:
			*p = f.smBuiltins
		default:
			return fmt.Errorf("unexpected property slot %T", p)
		}
	}
	return nil
}

func (f *fakeQuerier) QueueFamilies(h device.Handle) ([]device.QueueFamily, error) {
	if err := f.record("QueueFamilies"); err != nil {
		return nil, err
	}
	return f.families, nil
}

func (f *fakeQuerier) Extensions(h device.Handle) ([]string, error) {
	if err := f.record("Extensions"); err != nil {
		return nil, err
	}
	return f.extensions, nil
}
