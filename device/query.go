// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

// Handle refers to one physical device as enumerated by a device directory.
// It is only meaningful to the Querier that produced it.
type Handle int

// Querier is the read-only property query capability of a graphics driver.
// Every call is synchronous; a returned error means the driver could not
// answer and should be treated as fatal for the device being queried.
type Querier interface {
	// CoreProperties returns the base properties and limits of the device.
	CoreProperties(h Handle) (CoreProperties, error)

	// ChainedProperties populates every given output slot in a single
	// driver call. Slots the driver does not understand are left zeroed.
	ChainedProperties(h Handle, out ...ChainedProperty) error

	// QueueFamilies returns the queue families in driver order.
	QueueFamilies(h Handle) ([]QueueFamily, error)

	// Extensions returns the names of the supported device extensions.
	Extensions(h Handle) ([]string, error)
}

// PropertyKind identifies the native structure behind a ChainedProperty.
type PropertyKind int

// Chained property kinds
const (
	DriverPropertiesKind PropertyKind = iota
	MemoryPropertiesKind
	MemoryBudgetKind
	ShaderCorePropertiesAMDKind
	ShaderSMBuiltinsPropertiesNVKind
)

// ChainedProperty is an output slot of a chained properties query.
type ChainedProperty interface {
	Kind() PropertyKind
}

// MaxMemoryHeaps is the most heaps a driver may report.
const MaxMemoryHeaps = 16

// CoreProperties holds the raw core properties of a device.
// DeviceName is the native NUL-terminated byte array.
type CoreProperties struct {
	DeviceName    []byte
	DeviceType    int32
	VendorID      uint32
	DeviceID      uint32
	APIVersion    uint32
	DriverVersion uint32
	Limits        Limits
}

// Limits is the subset of device limits reported by vkfetch.
type Limits struct {
	MaxImageDimension2D            uint32
	MaxComputeSharedMemorySize     uint32
	MaxComputeWorkGroupInvocations uint32
}

// DriverProperties identifies the driver, names are native byte arrays.
type DriverProperties struct {
	DriverID   uint32
	DriverName []byte
	DriverInfo []byte
}

// Kind implements ChainedProperty
func (*DriverProperties) Kind() PropertyKind { return DriverPropertiesKind }

// HeapFlags describe a memory heap.
type HeapFlags uint32

// Heap flag bits
const (
	HeapDeviceLocal   HeapFlags = 0x1
	HeapMultiInstance HeapFlags = 0x2
)

// MemoryHeap is a single memory pool.
type MemoryHeap struct {
	Size  uint64
	Flags HeapFlags
}

// MemoryProperties lists the memory heaps of a device.
type MemoryProperties struct {
	Heaps []MemoryHeap
}

// Kind implements ChainedProperty
func (*MemoryProperties) Kind() PropertyKind { return MemoryPropertiesKind }

// MemoryBudget holds per-heap budget and usage, indexed like
// MemoryProperties.Heaps. Drivers without budget support leave it zeroed.
type MemoryBudget struct {
	HeapBudget []uint64
	HeapUsage  []uint64
}

// Kind implements ChainedProperty
func (*MemoryBudget) Kind() PropertyKind { return MemoryBudgetKind }

// ShaderCorePropertiesAMD describes the shader core layout of AMD devices.
type ShaderCorePropertiesAMD struct {
	ShaderEngineCount          uint32
	ShaderArraysPerEngineCount uint32
	ComputeUnitsPerShaderArray uint32
	SIMDPerComputeUnit         uint32
	WavefrontsPerSIMD          uint32
	WavefrontSize              uint32
}

// Kind implements ChainedProperty
func (*ShaderCorePropertiesAMD) Kind() PropertyKind { return ShaderCorePropertiesAMDKind }

// ShaderSMBuiltinsPropertiesNV describes streaming multiprocessors of Nvidia devices.
type ShaderSMBuiltinsPropertiesNV struct {
	ShaderSMCount    uint32
	ShaderWarpsPerSM uint32
}

// Kind implements ChainedProperty
func (*ShaderSMBuiltinsPropertiesNV) Kind() PropertyKind { return ShaderSMBuiltinsPropertiesNVKind }

// QueueFlags describe the capabilities of a queue family.
type QueueFlags uint32

// Queue flag bits
const (
	QueueGraphics      QueueFlags = 0x1
	QueueCompute       QueueFlags = 0x2
	QueueTransfer      QueueFlags = 0x4
	QueueSparseBinding QueueFlags = 0x8
)

// Has reports whether all bits of f are set.
func (q QueueFlags) Has(f QueueFlags) bool {
	return q&f == f
}

// QueueFamily describes a group of queues with identical capabilities.
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}
