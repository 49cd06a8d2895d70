//go:build windows

package main

import (
	"fmt"
	"os"

	"godetour/hexdump"
	"godetour/process"
	"godetour/process_windows"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: example <process name substring>")
		return
	}

	proc, err := process_windows.OpenProcessByName(os.Args[1])
	if err != nil {
		fmt.Println("open:", err)
		return
	}
	defer proc.Close()

	fmt.Printf("pid %d, 32-bit target: %v\n", proc.GetPID(), proc.Is32Bit())

	for module, err := range proc.Modules() {
		if err != nil {
			fmt.Println("modules:", err)
			return
		}
		fmt.Printf("%-32s %s - %s\n", module.Name, module.BaseAddress, module.EndAddress())
	}

	var imageRegions []process.MemoryRegion
	for region, err := range proc.Regions(process.RegionFilter{State: process.MEM_COMMIT, Type: process.MEM_IMAGE}) {
		if err != nil {
			fmt.Println("regions:", err)
			return
		}
		imageRegions = append(imageRegions, region)
	}
	fmt.Println("committed image regions:", len(imageRegions))

	module, found, err := proc.FindModule(os.Args[1])
	if err != nil || !found {
		return
	}
	magic, err := process.ReadUint16(proc, module.BaseAddress)
	if err != nil {
		fmt.Println("read:", err)
		return
	}
	fmt.Printf("%s DOS magic: 0x%04X\n", module.Name, magic)

	header, err := proc.Read(module.BaseAddress, 64)
	if err != nil {
		fmt.Println("read:", err)
		return
	}
	fmt.Print(hexdump.DumpWithOffset(header, uint64(module.BaseAddress), imageRegions))

	// Round-trip patch demo against scratch memory allocated in the target.
	scratch, err := proc.Allocate(16, false)
	if err != nil {
		fmt.Println("allocate:", err)
		return
	}
	defer proc.Free(scratch)

	set := proc.Detours()
	if err := set.ApplyPatch("demo", scratch, []byte{0xDE, 0xAD, 0xBE, 0xEF}); err != nil {
		fmt.Println("patch:", err)
		return
	}
	if err := set.TogglePatch("demo"); err != nil {
		fmt.Println("toggle:", err)
		return
	}
	fmt.Println("patch applied and reverted at", scratch)
}
