// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device turns raw driver-reported properties into
// a vendor-agnostic description of a physical GPU.
package device

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Extensions that indicate hardware ray tracing support.
const (
	KhrRayTracingPipelineExtensionName = "VK_KHR_ray_tracing_pipeline"
	NvRayTracingExtensionName          = "VK_NV_ray_tracing"
)

// PhysicalDevice describes a physical GPU. It is built once by Build
// and not modified afterwards.
type PhysicalDevice struct {
	Vendor     Vendor     `json:"vendor"`
	DeviceName string     `json:"device_name"`
	DeviceType DeviceType `json:"device_type"`
	DeviceID   uint32     `json:"device_id"`
	VendorID   uint32     `json:"vendor_id"`
	DriverName string     `json:"driver_name"`
	DriverInfo string     `json:"driver_info"`
	APIVersion string     `json:"api_version"`

	// VRAM
	HeapSize   uint64 `json:"heap_size"`
	HeapBudget uint64 `json:"heap_budget"`

	Characteristics Characteristics `json:"characteristics"`
}

// Characteristics holds derived device characteristics. Vendor specific
// topology is grouped, a group is either nil or completely filled in.
type Characteristics struct {
	MemoryPressure Pressure `json:"memory_pressure"`

	ShaderCore *ShaderCoreTopology `json:"shader_core,omitempty"`
	SM         *SMTopology         `json:"sm,omitempty"`

	MaxImageDimension2D            uint32 `json:"max_image_dimension_2d"`
	MaxComputeSharedMemorySize     uint32 `json:"max_compute_shared_memory_size"`
	MaxComputeWorkGroupInvocations uint32 `json:"max_compute_work_group_invocations"`

	DedicatedTransferQueue     bool `json:"dedicated_transfer_queue"`
	DedicatedAsyncComputeQueue bool `json:"dedicated_async_compute_queue"`
	SupportsRayTracing         bool `json:"supports_ray_tracing"`
}

// ShaderCoreTopology is the compute topology of AMD devices.
type ShaderCoreTopology struct {
	ComputeUnits               uint32 `json:"compute_units"`
	ShaderEngines              uint32 `json:"shader_engines"`
	ShaderArraysPerEngine      uint32 `json:"shader_arrays_per_engine"`
	ComputeUnitsPerShaderArray uint32 `json:"compute_units_per_shader_array"`
	SIMDPerComputeUnit         uint32 `json:"simd_per_compute_unit"`
	WavefrontsPerSIMD          uint32 `json:"wavefronts_per_simd"`
	WavefrontSize              uint32 `json:"wavefront_size"`
}

// SMTopology is the compute topology of Nvidia devices.
type SMTopology struct {
	StreamingMultiprocessors uint32 `json:"streaming_multiprocessors"`
	WarpsPerSM               uint32 `json:"warps_per_sm"`
}

// Pressure is the consumed fraction of a heap budget, between 0 and 1.
// It is NaN when the driver reports no budget, check Known before use.
type Pressure float64

// Known reports whether the pressure was computed from a real budget.
func (p Pressure) Known() bool {
	return !math.IsNaN(float64(p))
}

// Percent returns the pressure as a percentage.
func (p Pressure) Percent() float64 {
	return float64(p) * 100
}

// MarshalJSON encodes an unknown pressure as null.
func (p Pressure) MarshalJSON() ([]byte, error) {
	if !p.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// DeviceType is the kind of a physical device.
type DeviceType int32

// Device types, values match VkPhysicalDeviceType
const (
	OtherDevice DeviceType = iota
	IntegratedGPU
	DiscreteGPU
	VirtualGPU
	CPU
	UnknownDevice
)

// DeviceTypeFromRaw maps a raw device type code, unknown codes map to UnknownDevice.
func DeviceTypeFromRaw(raw int32) DeviceType {
	if raw < int32(OtherDevice) || raw > int32(CPU) {
		return UnknownDevice
	}
	return DeviceType(raw)
}

// Name returns a human readable name.
func (t DeviceType) Name() string {
	switch t {
	case OtherDevice:
		return "Other"
	case IntegratedGPU:
		return "Integrated GPU"
	case DiscreteGPU:
		return "Discrete GPU"
	case VirtualGPU:
		return "Virtual GPU"
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

func (t DeviceType) String() string {
	return t.Name()
}

// MarshalText implements encoding.TextMarshaler
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.Name()), nil
}

// Build queries q for everything known about the device behind h.
// The vendor is resolved first, an unknown vendor stops the build
// with an *UnknownVendorError before any other query is made.
// Errors from q are returned as they are.
func Build(q Querier, h Handle) (PhysicalDevice, error) {
	props, err := q.CoreProperties(h)
	if err != nil {
		return PhysicalDevice{}, err
	}
	vendor, err := VendorFromID(props.VendorID)
	if err != nil {
		return PhysicalDevice{}, err
	}

	var driver DriverProperties
	if err := q.ChainedProperties(h, &driver); err != nil {
		return PhysicalDevice{}, err
	}

	var (
		memory MemoryProperties
		budget MemoryBudget
	)
	if err := q.ChainedProperties(h, &memory, &budget); err != nil {
		return PhysicalDevice{}, err
	}
	heapSize, heapBudget := selectHeap(memory, budget)

	queueFamilies, err := q.QueueFamilies(h)
	if err != nil {
		return PhysicalDevice{}, err
	}
	transfer, asyncCompute := dedicatedQueues(queueFamilies)

	extensions, err := q.Extensions(h)
	if err != nil {
		return PhysicalDevice{}, err
	}

	chars := Characteristics{
		MemoryPressure:                 memoryPressure(heapSize, heapBudget),
		MaxImageDimension2D:            props.Limits.MaxImageDimension2D,
		MaxComputeSharedMemorySize:     props.Limits.MaxComputeSharedMemorySize,
		MaxComputeWorkGroupInvocations: props.Limits.MaxComputeWorkGroupInvocations,
		DedicatedTransferQueue:         transfer,
		DedicatedAsyncComputeQueue:     asyncCompute,
		SupportsRayTracing:             supportsRayTracing(extensions),
	}

	switch vendor {
	case AMD:
		var core ShaderCorePropertiesAMD
		if err := q.ChainedProperties(h, &core); err != nil {
			return PhysicalDevice{}, err
		}
		chars.ShaderCore = &ShaderCoreTopology{
			ComputeUnits:               core.ShaderEngineCount * core.ShaderArraysPerEngineCount * core.ComputeUnitsPerShaderArray,
			ShaderEngines:              core.ShaderEngineCount,
			ShaderArraysPerEngine:      core.ShaderArraysPerEngineCount,
			ComputeUnitsPerShaderArray: core.ComputeUnitsPerShaderArray,
			SIMDPerComputeUnit:         core.SIMDPerComputeUnit,
			WavefrontsPerSIMD:          core.WavefrontsPerSIMD,
			WavefrontSize:              core.WavefrontSize,
		}
	case Nvidia:
		var sm ShaderSMBuiltinsPropertiesNV
		if err := q.ChainedProperties(h, &sm); err != nil {
			return PhysicalDevice{}, err
		}
		chars.SM = &SMTopology{
			StreamingMultiprocessors: sm.ShaderSMCount,
			WarpsPerSM:               sm.ShaderWarpsPerSM,
		}
	}

	return PhysicalDevice{
		Vendor:          vendor,
		DeviceName:      DecodeString(props.DeviceName),
		DeviceType:      DeviceTypeFromRaw(props.DeviceType),
		DeviceID:        props.DeviceID,
		VendorID:        props.VendorID,
		DriverName:      DecodeString(driver.DriverName),
		DriverInfo:      DecodeString(driver.DriverInfo),
		APIVersion:      DecodeVersion(props.APIVersion),
		HeapSize:        heapSize,
		HeapBudget:      heapBudget,
		Characteristics: chars,
	}, nil
}

// VRAMHeapIndex returns the index of the first device local heap,
// or 0 when there is none.
func VRAMHeapIndex(heaps []MemoryHeap) int {
	for idx, heap := range heaps {
		if heap.Flags&HeapDeviceLocal != 0 {
			return idx
		}
	}
	return 0
}

func selectHeap(memory MemoryProperties, budget MemoryBudget) (size, available uint64) {
	idx := VRAMHeapIndex(memory.Heaps)
	if idx < len(memory.Heaps) {
		size = memory.Heaps[idx].Size
	}
	if idx < len(budget.HeapBudget) {
		available = budget.HeapBudget[idx]
	}
	return size, available
}

func memoryPressure(size, budget uint64) Pressure {
	if budget == 0 {
		return Pressure(math.NaN())
	}
	if budget >= size {
		return 0
	}
	return Pressure(float64(size-budget) / float64(size))
}

// dedicatedQueues looks for a transfer-only family and a compute family
// without graphics.
func dedicatedQueues(families []QueueFamily) (transfer, asyncCompute bool) {
	for _, qf := range families {
		if qf.Flags.Has(QueueTransfer) && !qf.Flags.Has(QueueGraphics) && !qf.Flags.Has(QueueCompute) {
			transfer = true
		}
		if qf.Flags.Has(QueueCompute) && !qf.Flags.Has(QueueGraphics) {
			asyncCompute = true
		}
	}
	return transfer, asyncCompute
}

func supportsRayTracing(extensions []string) bool {
	for _, ext := range extensions {
		if ext == KhrRayTracingPipelineExtensionName || ext == NvRayTracingExtensionName {
			return true
		}
	}
	return false
}

// DecodeString converts a NUL-terminated native string into a display string.
// Invalid UTF-8 is replaced rather than rejected, a missing terminator
// yields "Unknown".
func DecodeString(native []byte) string {
	end := bytes.IndexByte(native, 0)
	if end < 0 {
		return "Unknown"
	}
	return strings.ToValidUTF8(string(native[:end]), "\uFFFD")
}
