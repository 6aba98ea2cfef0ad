// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

/*
#cgo pkg-config: vulkan
#include <stdlib.h>
#include <vulkan/vulkan.h>

enum {
	WANT_DRIVER      = 1 << 0,
	WANT_SHADER_CORE = 1 << 1,
	WANT_SM_BUILTINS = 1 << 2,
	WANT_BUDGET      = 1 << 3,
};

typedef struct {
	VkPhysicalDeviceProperties2 base;
	VkPhysicalDeviceDriverProperties driver;
	VkPhysicalDeviceShaderCorePropertiesAMD shaderCore;
	VkPhysicalDeviceShaderSMBuiltinsPropertiesNV smBuiltins;
} propertiesChain;

typedef struct {
	VkPhysicalDeviceMemoryProperties2 base;
	VkPhysicalDeviceMemoryBudgetPropertiesEXT budget;
} memoryChain;

static PFN_vkVoidFunction lookup(VkInstance instance, const char *name, const char *fallback) {
	PFN_vkVoidFunction fn = vkGetInstanceProcAddr(instance, name);
	if (fn == NULL) {
		fn = vkGetInstanceProcAddr(instance, fallback);
	}
	return fn;
}

static VkResult queryProperties(VkInstance instance, VkPhysicalDevice pd, propertiesChain *chain, int want) {
	PFN_vkGetPhysicalDeviceProperties2 fn = (PFN_vkGetPhysicalDeviceProperties2)lookup(
		instance, "vkGetPhysicalDeviceProperties2", "vkGetPhysicalDeviceProperties2KHR");
	if (fn == NULL) {
		return VK_ERROR_EXTENSION_NOT_PRESENT;
	}

	void *next = NULL;
	chain->driver.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_DRIVER_PROPERTIES;
	chain->shaderCore.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_SHADER_CORE_PROPERTIES_AMD;
	chain->smBuiltins.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_SHADER_SM_BUILTINS_PROPERTIES_NV;
	if (want & WANT_SM_BUILTINS) {
		chain->smBuiltins.pNext = next;
		next = &chain->smBuiltins;
	}
	if (want & WANT_SHADER_CORE) {
		chain->shaderCore.pNext = next;
		next = &chain->shaderCore;
	}
	if (want & WANT_DRIVER) {
		chain->driver.pNext = next;
		next = &chain->driver;
	}
	chain->base.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_PROPERTIES_2;
	chain->base.pNext = next;

	fn(pd, &chain->base);
	return VK_SUCCESS;
}

static VkResult queryMemory(VkInstance instance, VkPhysicalDevice pd, memoryChain *chain, int want) {
	PFN_vkGetPhysicalDeviceMemoryProperties2 fn = (PFN_vkGetPhysicalDeviceMemoryProperties2)lookup(
		instance, "vkGetPhysicalDeviceMemoryProperties2", "vkGetPhysicalDeviceMemoryProperties2KHR");
	if (fn == NULL) {
		return VK_ERROR_EXTENSION_NOT_PRESENT;
	}

	chain->budget.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_MEMORY_BUDGET_PROPERTIES_EXT;
	chain->base.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_MEMORY_PROPERTIES_2;
	chain->base.pNext = (want & WANT_BUDGET) ? &chain->budget : NULL;

	fn(pd, &chain->base);
	return VK_SUCCESS;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/devblok/vkfetch/device"
	vk "github.com/devblok/vulkan"
)

// ChainedProperties implements device.Querier. Slots are grouped into at
// most one vkGetPhysicalDeviceProperties2 and one
// vkGetPhysicalDeviceMemoryProperties2 call.
func (v *VulkanInstance) ChainedProperties(h device.Handle, out ...device.ChainedProperty) error {
	pd, err := v.physicalDevice(h, "vkGetPhysicalDeviceProperties2")
	if err != nil {
		return err
	}

	var propertiesWant, memoryWant C.int
	for _, slot := range out {
		switch slot.Kind() {
		case device.DriverPropertiesKind:
			propertiesWant |= C.WANT_DRIVER
		case device.ShaderCorePropertiesAMDKind:
			propertiesWant |= C.WANT_SHADER_CORE
		case device.ShaderSMBuiltinsPropertiesNVKind:
			propertiesWant |= C.WANT_SM_BUILTINS
		case device.MemoryPropertiesKind:
		case device.MemoryBudgetKind:
			memoryWant |= C.WANT_BUDGET
		default:
			return &device.QueryError{
				Call: "vkGetPhysicalDeviceProperties2",
				Err:  fmt.Errorf("unsupported property kind %d", slot.Kind()),
			}
		}
	}

	instance := C.VkInstance(unsafe.Pointer(v.instance))
	physical := C.VkPhysicalDevice(unsafe.Pointer(pd))

	var props *C.propertiesChain
	if propertiesWant != 0 {
		props = (*C.propertiesChain)(C.calloc(1, C.sizeof_propertiesChain))
		defer C.free(unsafe.Pointer(props))
		if err := vk.Error(vk.Result(C.queryProperties(instance, physical, props, propertiesWant))); err != nil {
			return &device.QueryError{Call: "vkGetPhysicalDeviceProperties2", Err: err}
		}
	}

	var memory *C.memoryChain
	if hasMemorySlot(out) {
		memory = (*C.memoryChain)(C.calloc(1, C.sizeof_memoryChain))
		defer C.free(unsafe.Pointer(memory))
		if err := vk.Error(vk.Result(C.queryMemory(instance, physical, memory, memoryWant))); err != nil {
			return &device.QueryError{Call: "vkGetPhysicalDeviceMemoryProperties2", Err: err}
		}
	}

	for _, slot := range out {
		switch s := slot.(type) {
		case *device.DriverProperties:
			s.DriverID = uint32(props.driver.driverID)
			s.DriverName = C.GoBytes(unsafe.Pointer(&props.driver.driverName[0]), C.int(len(props.driver.driverName)))
			s.DriverInfo = C.GoBytes(unsafe.Pointer(&props.driver.driverInfo[0]), C.int(len(props.driver.driverInfo)))
		case *device.ShaderCorePropertiesAMD:
			amd := props.shaderCore
			s.ShaderEngineCount = uint32(amd.shaderEngineCount)
			s.ShaderArraysPerEngineCount = uint32(amd.shaderArraysPerEngineCount)
			s.ComputeUnitsPerShaderArray = uint32(amd.computeUnitsPerShaderArray)
			s.SIMDPerComputeUnit = uint32(amd.simdPerComputeUnit)
			s.WavefrontsPerSIMD = uint32(amd.wavefrontsPerSimd)
			s.WavefrontSize = uint32(amd.wavefrontSize)
		case *device.ShaderSMBuiltinsPropertiesNV:
			s.ShaderSMCount = uint32(props.smBuiltins.shaderSMCount)
			s.ShaderWarpsPerSM = uint32(props.smBuiltins.shaderWarpsPerSM)
		case *device.MemoryProperties:
			count := heapCount(memory)
			s.Heaps = make([]device.MemoryHeap, count)
			for idx := 0; idx < count; idx++ {
				heap := memory.base.memoryProperties.memoryHeaps[idx]
				s.Heaps[idx] = device.MemoryHeap{
					Size:  uint64(heap.size),
					Flags: device.HeapFlags(heap.flags),
				}
			}
		case *device.MemoryBudget:
			count := heapCount(memory)
			s.HeapBudget = make([]uint64, count)
			s.HeapUsage = make([]uint64, count)
			for idx := 0; idx < count; idx++ {
				s.HeapBudget[idx] = uint64(memory.budget.heapBudget[idx])
				s.HeapUsage[idx] = uint64(memory.budget.heapUsage[idx])
			}
		}
	}
	return nil
}

func hasMemorySlot(out []device.ChainedProperty) bool {
	for _, slot := range out {
		if k := slot.Kind(); k == device.MemoryPropertiesKind || k == device.MemoryBudgetKind {
			return true
		}
	}
	return false
}

func heapCount(memory *C.memoryChain) int {
	count := int(memory.base.memoryProperties.memoryHeapCount)
	if count > device.MaxMemoryHeaps {
		count = device.MaxMemoryHeaps
	}
	return count
}
