// Profiling:
// go build ./cmd/ecsprofile
// ./ecsprofile -mode mem
// go tool pprof -http=":8000" -nodefraction=0.001 ./ecsprofile mem.pprof

package main

import (
	"flag"
	"log"

	"github.com/pkg/profile"

	"github.com/1siamBot/voxel-engine/engine/core"
)

type pos struct {
	X, Y, Z float64
}

type vel struct {
	X, Y, Z float64
}

func main() {
	mode := flag.String("mode", "mem", "profile kind: cpu or mem")
	rounds := flag.Int("rounds", 50, "simulations to build")
	iters := flag.Int("iters", 200, "ticks per simulation")
	entities := flag.Int("entities", 1000, "entities created and removed per tick")
	flag.Parse()

	opt := profile.MemProfileAllocs
	if *mode == "cpu" {
		opt = profile.CPUProfile
	}
	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	if err := run(*rounds, *iters, *entities); err != nil {
		p.Stop()
		log.Fatal(err)
	}
	p.Stop()
}

// run churns entities through attach, tick and deferred removal
func run(rounds, iters, numEntities int) error {
	cfg := core.DefaultConfig()
	cfg.InitialCapacity = numEntities
	for range rounds {
		ents := core.New(cfg, nil)
		position := core.MustRegister(ents, core.Definition[pos]{Name: "position"})
		velocity := core.MustRegister(ents, core.Definition[vel]{
			Name:    "velocity",
			Default: vel{X: 1},
			Tick: func(dt float64, states []*core.Record[vel]) {
				for _, r := range states {
					if p, err := position.Get(r.Owner); err == nil {
						p.X += r.Data.X * dt
						p.Y += r.Data.Y * dt
						p.Z += r.Data.Z * dt
					}
				}
			},
		})

		batch := make([]core.EntityID, numEntities)
		for range iters {
			for i := range batch {
				id, err := ents.CreateEntityWith(
					core.Attachment{Component: position},
					core.Attachment{Component: velocity},
				)
				if err != nil {
					return err
				}
				batch[i] = id
			}
			// the batch lives for one tick and is drained by the next
			if err := ents.Tick(1.0 / 30); err != nil {
				return err
			}
			for _, id := range batch {
				ents.QueueRemoval(id)
			}
		}
		if err := ents.Teardown(); err != nil {
			return err
		}
	}
	return nil
}
