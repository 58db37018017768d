// Headless stress run of the simulation core: many particle emitters and a
// crowd of collidables in two channels, stepped at a fixed rate without a window.
//
// Profiling:
// go build ./cmd/bench
// ./bench -mode cpu -frames 600
// go tool pprof -http=":8000" ./bench cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/app"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/entities"
	"github.com/pkg/profile"
)

type (
	shotTag  struct{}
	crowdTag struct{}
)

var (
	framesFlag     = flag.Int("frames", 600, "Number of frames to simulate")
	emittersFlag   = flag.Int("emitters", 50, "Number of particle emitters")
	collidableFlag = flag.Int("collidables", 5000, "Number of collidable entities")
	gridFlag       = flag.Int("grid", config.DefaultGridSize, "Hash grid cell size")
	batchFlag      = flag.Int("batch", config.DefaultBatchSize, "Parallel batch size")
	modeFlag       = flag.String("mode", "", "Profile mode: cpu, mem, trace (empty disables profiling)")
	seedFlag       = flag.Uint64("seed", 1, "Random seed")
)

func main() {
	flag.Parse()

	switch *modeFlag {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *modeFlag)
		os.Exit(2)
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.DefaultSimulationConfig()
	cfg.GridSize = *gridFlag
	cfg.BatchSize = *batchFlag
	cfg.Seed = *seedFlag

	sim, err := app.NewSimulation(cfg, nil)
	if err != nil {
		return err
	}
	if _, err := app.RegisterCollisionChannel[shotTag](sim, "shot"); err != nil {
		return err
	}
	if _, err := app.RegisterCollisionChannel[crowdTag](sim, "crowd"); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seedFlag, *seedFlag+1))
	const worldSize = 4000.0

	emitter := particle.DefaultSystemConfig()
	emitter.Name = "bench"
	emitter.MaxParticles = 500
	emitter.SpawnRatePerSecond = particle.ConstantValue(200)
	emitter.Lifetime = particle.Jittered(1.5, -0.5, 0.5)
	emitter.InitialVelocity = particle.Jittered(80, -20, 20)
	emitter.Acceleration = particle.SineValue(particle.SinWave{Amplitude: 50, Period: 2})
	for i := 0; i < *emittersFlag; i++ {
		if _, err := entities.NewParticleEmitter(sim.EntityManager, &emitter, rng.Float64()*worldSize, rng.Float64()*worldSize); err != nil {
			return err
		}
	}

	em := sim.EntityManager
	movers := make([]ecs.EntityID, 0, *collidableFlag)
	for i := 0; i < *collidableFlag; i++ {
		id := entities.NewCollidableInstance(em, rng.Float64()*worldSize, rng.Float64()*worldSize, 10+rng.Float64()*20, 10+rng.Float64()*20, 0)
		switch i % 4 {
		case 0:
			entities.AddCollider[shotTag](em, id)
		case 1:
			entities.AddCollidesWith[shotTag](em, id)
		default:
			entities.AddCollider[crowdTag](em, id)
			entities.AddCollidesWith[crowdTag](em, id)
		}
		if i%2 == 0 {
			movers = append(movers, id)
		}
	}

	const dt = 1.0 / 60
	var (
		stepTime time.Duration
		maxFrame time.Duration
		hits     int
	)
	for frame := 0; frame < *framesFlag; frame++ {
		// 一半的实体每帧随机移动，强制网格重新分桶
		for _, id := range movers {
			inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
			inst.MoveTo(inst.X+(rng.Float64()-0.5)*8, inst.Y+(rng.Float64()-0.5)*8)
		}

		start := time.Now()
		sim.Step(dt)
		elapsed := time.Since(start)
		stepTime += elapsed
		maxFrame = max(maxFrame, elapsed)

		hits += len(ecs.GetEntitiesWith1[*components.CollidingComponent[shotTag]](em))
	}

	frames := max(*framesFlag, 1)
	fmt.Printf("frames:      %d\n", *framesFlag)
	fmt.Printf("entities:    %d\n", em.EntityCount())
	fmt.Printf("particles:   %d\n", len(ecs.GetEntitiesWith1[*components.ParticleComponent](em)))
	fmt.Printf("shot hits:   %d (sum over frames)\n", hits)
	fmt.Printf("avg frame:   %v\n", stepTime/time.Duration(frames))
	fmt.Printf("worst frame: %v\n", maxFrame)
	return nil
}
