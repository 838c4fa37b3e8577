package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/1siamBot/voxel-engine/engine/maplib"
	"github.com/1siamBot/voxel-engine/engine/registry"
	"github.com/1siamBot/voxel-engine/engine/sandbox"
)

// Writes the default block catalog and a voxel map for the sandboxes. With
// -hills the flat demo floor gets random mounds of stone.
func main() {
	dir := flag.String("out", "assets", "output directory")
	hills := flag.Int("hills", 0, "number of hills to raise")
	seed := flag.Int64("seed", 1, "random seed for hills")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatal(err)
	}

	catalog := sandbox.DefaultCatalog()
	reg, err := catalog.Build()
	if err != nil {
		log.Fatal(err)
	}
	vm := sandbox.GenerateMap(reg)
	if *hills > 0 {
		raiseHills(vm, reg, *hills, rand.New(rand.NewSource(*seed)))
	}

	catalogPath := filepath.Join(*dir, "catalog.json")
	if err := catalog.SaveJSON(catalogPath); err != nil {
		log.Fatal(err)
	}
	mapPath := filepath.Join(*dir, "map.json")
	if err := vm.SaveJSON(mapPath); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s and %s (%dx%dx%d)\n", catalogPath, mapPath, vm.Width, vm.Height, vm.Depth)
}

// raiseHills stacks stone in round mounds, keeping the spawn column clear
func raiseHills(vm *maplib.VoxelMap, reg *registry.Registry, n int, rng *rand.Rand) {
	stone, ok := reg.BlockID("stone")
	if !ok {
		return
	}
	for range n {
		cx, cz := rng.Intn(vm.Width), rng.Intn(vm.Depth)
		radius := 2 + rng.Float64()*3
		peak := 1 + rng.Intn(vm.Height-2)
		for z := 0; z < vm.Depth; z++ {
			for x := 0; x < vm.Width; x++ {
				if x == vm.Spawn[0] && z == vm.Spawn[2] {
					continue
				}
				d := math.Hypot(float64(x-cx), float64(z-cz))
				if d > radius {
					continue
				}
				h := int(math.Round(float64(peak) * (1 - d/radius)))
				if h > 0 {
					vm.Fill(x, 1, z, x, h, z, stone)
				}
			}
		}
	}
}
