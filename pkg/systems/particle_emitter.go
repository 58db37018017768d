package systems

import (
	"log"
	"math"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

// SpawnParticles advances every playing emitter and spawns new particles.
//
// Per emitter:
//   - running time advances by dt times the emitter's time scale; entering a new
//     whole second resets the per-second spawn counter
//   - reaching the system duration either wraps (looping) or, once no particle
//     is alive, despawns the emitter or removes its PlayingComponent
//   - the rate-driven count is floor(fraction of the current second * rate)
//     minus what was already spawned this second, clamped to remaining capacity;
//     a positive rate spawns at least one particle per second
//   - at most one burst fires per frame; bursts do not count toward the
//     per-second counter and are clamped to remaining capacity
func (ps *ParticleSystem) SpawnParticles(dt float64) {
	ids := ecs.GetEntitiesWith5[
		*components.EmitterComponent,
		*components.PositionComponent,
		*components.ParticleCountComponent,
		*components.RunningStateComponent,
		*components.BurstIndexComponent,
	](ps.entityManager)
	ids = ecs.With[*components.PlayingComponent](ps.entityManager, ids)

	for _, id := range ids {
		emitter, _ := ecs.GetComponent[*components.EmitterComponent](ps.entityManager, id)
		cfg := emitter.Config
		if cfg == nil {
			continue
		}
		position, _ := ecs.GetComponent[*components.PositionComponent](ps.entityManager, id)
		count, _ := ecs.GetComponent[*components.ParticleCountComponent](ps.entityManager, id)
		state, _ := ecs.GetComponent[*components.RunningStateComponent](ps.entityManager, id)
		burst, _ := ecs.GetComponent[*components.BurstIndexComponent](ps.entityManager, id)

		toSpawn, extra, finished := advanceEmitter(cfg, state, count, burst, dt*ps.timeScale.ScaleFor(cfg.UseScaledTime))
		if finished {
			ps.finishEmitter(id, cfg)
			continue
		}

		for i := 0; i < toSpawn+extra; i++ {
			ps.spawnParticle(id, position, cfg)
		}
		state.SpawnedThisSecond += toSpawn
		count.Count += toSpawn + extra
	}
}

// advanceEmitter updates the emitter run state for one frame and returns how
// many rate-driven and burst particles to spawn. finished is true when a
// non-looping emitter has completed and has no live particles.
func advanceEmitter(
	cfg *particle.SystemConfig,
	state *components.RunningStateComponent,
	count *components.ParticleCountComponent,
	burst *components.BurstIndexComponent,
	step float64,
) (toSpawn, extra int, finished bool) {
	state.RunningTime += step

	if second := math.Floor(state.RunningTime); second > state.CurrentSecond+0.5 {
		state.CurrentSecond = second
		state.SpawnedThisSecond = 0
	}

	if state.RunningTime >= cfg.SystemDurationSeconds {
		if !cfg.Looping {
			return 0, 0, count.Count == 0
		}
		state.RunningTime -= cfg.SystemDurationSeconds
		state.CurrentSecond = math.Floor(state.RunningTime)
		state.SpawnedThisSecond = 0
		burst.Index = 0
	}

	if count.Count >= cfg.MaxParticles {
		return 0, 0, false
	}

	remaining := cfg.MaxParticles - count.Count
	pct := state.RunningTime / cfg.SystemDurationSeconds
	rate := cfg.SpawnRatePerSecond.At(pct)
	fraction := state.RunningTime - math.Floor(state.RunningTime)

	desired := math.Floor(fraction*rate - float64(state.SpawnedThisSecond))
	desired = math.Max(0, math.Min(desired, float64(remaining)))
	toSpawn = int(desired)

	if burst.Index < len(cfg.Bursts) && state.RunningTime >= cfg.Bursts[burst.Index].Time {
		extra = cfg.Bursts[burst.Index].Count
		burst.Index++
	}

	if toSpawn == 0 && state.SpawnedThisSecond == 0 && rate > 0 {
		toSpawn = 1
	}

	extra = max(0, min(extra, remaining-toSpawn))
	return toSpawn, extra, false
}

// finishEmitter despawns a completed emitter or pauses it, per its configuration.
func (ps *ParticleSystem) finishEmitter(id ecs.EntityID, cfg *particle.SystemConfig) {
	if cfg.DespawnOnFinish {
		log.Printf("[ParticleSystem] Emitter %d (%s) finished, despawning", id, cfg.Name)
		ps.entityManager.DestroyEntity(id)
		return
	}
	log.Printf("[ParticleSystem] Emitter %d (%s) finished, pausing", id, cfg.Name)
	ecs.RemoveComponent[*components.PlayingComponent](ps.entityManager, id)
}

// spawnParticle creates one particle inside the emitter's cone.
//
// Random draws happen in a fixed order (direction, radius, lifetime, velocity)
// so a seeded RandomSource gives reproducible particles.
func (ps *ParticleSystem) spawnParticle(parent ecs.EntityID, position *components.PositionComponent, cfg *particle.SystemConfig) ecs.EntityID {
	angle := (ps.rng.Float64()-0.5)*cfg.EmitterShape + cfg.EmitterAngle
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	radius := cfg.SpawnRadius.Value(ps.rng)

	size := cfg.Scale.At(0)
	inst := &components.InstanceComponent{
		X:       position.X + dirX*radius,
		Y:       position.Y + dirY*radius,
		ScaleX:  size,
		ScaleY:  size,
		Color:   cfg.Color.At(0),
		ShapeID: cfg.ShapeID,
	}

	p := &components.ParticleComponent{
		Parent:      parent,
		MaxLifetime: cfg.Lifetime.Value(ps.rng),
	}
	if cfg.MaxDistance != nil {
		p.MaxDistance = *cfg.MaxDistance
		p.HasMaxDistance = true
	}

	em := ps.entityManager
	id := em.CreateEntity()
	ecs.AddComponent(em, id, inst)
	ecs.AddComponent(em, id, p)
	ecs.AddComponent(em, id, &components.LifetimeComponent{})
	ecs.AddComponent(em, id, &components.VelocityComponent{Speed: cfg.InitialVelocity.Value(ps.rng)})
	ecs.AddComponent(em, id, &components.DirectionComponent{X: dirX, Y: dirY})
	ecs.AddComponent(em, id, &components.DistanceTraveledComponent{})
	return id
}
