package systems

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/game"
)

// ParticleSystem manages all particle emitters and individual particles.
//
// Each frame runs five steps in a fixed order:
//  1. SpawnParticles: advance emitter run state, spawn particles and bursts
//  2. UpdateLifetimes: age every particle
//  3. UpdateColors: evaluate the emitter color curve at the particle's life percent
//  4. UpdateTransforms: integrate acceleration, velocity, position and scale
//  5. CleanupParticles: destroy expired particles and decrement the emitter count
//
// The steps are exported so a Scheduler can register them under separate
// labels. Steps 2-4 touch only the particle's own components and run in
// parallel chunks.
//
// Follows ECS zero-coupling principle: communicates only through EntityManager.
type ParticleSystem struct {
	entityManager *ecs.EntityManager
	rng           particle.RandomSource
	timeScale     *game.TimeScale
	batchSize     int
}

// NewParticleSystem creates a new ParticleSystem.
//
// rng may be nil, in which case a time-seeded PCG source is used.
// timeScale may be nil (equivalent to a scale of 1 for every emitter).
func NewParticleSystem(em *ecs.EntityManager, rng particle.RandomSource, timeScale *game.TimeScale) *ParticleSystem {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &ParticleSystem{
		entityManager: em,
		rng:           rng,
		timeScale:     timeScale,
		batchSize:     ecs.DefaultBatchSize,
	}
}

// SetBatchSize sets the chunk size for parallel particle updates.
func (ps *ParticleSystem) SetBatchSize(n int) {
	if n > 0 {
		ps.batchSize = n
	}
}

// SetTimeScale replaces the global time-scale resource (nil disables scaling).
func (ps *ParticleSystem) SetTimeScale(ts *game.TimeScale) {
	ps.timeScale = ts
}

// Update runs all five particle steps for the current frame.
// dt is the delta time in seconds since the last frame.
func (ps *ParticleSystem) Update(dt float64) {
	ps.SpawnParticles(dt)
	ps.UpdateLifetimes(dt)
	ps.UpdateColors(dt)
	ps.UpdateTransforms(dt)
	ps.CleanupParticles(dt)
}

// emitterConfigs returns the configuration of every live emitter keyed by entity.
func (ps *ParticleSystem) emitterConfigs() map[ecs.EntityID]*particle.SystemConfig {
	ids := ecs.GetEntitiesWith1[*components.EmitterComponent](ps.entityManager)
	configs := make(map[ecs.EntityID]*particle.SystemConfig, len(ids))
	for _, id := range ids {
		emitter, _ := ecs.GetComponent[*components.EmitterComponent](ps.entityManager, id)
		if emitter.Config != nil {
			configs[id] = emitter.Config
		}
	}
	return configs
}

// UpdateLifetimes ages every particle by dt scaled with its parent emitter's time scale.
// Particles whose emitter no longer exists age with a scale of 1.
func (ps *ParticleSystem) UpdateLifetimes(dt float64) {
	configs := ps.emitterConfigs()
	ids := ecs.GetEntitiesWith2[*components.ParticleComponent, *components.LifetimeComponent](ps.entityManager)

	type agingJob struct {
		lifetime *components.LifetimeComponent
		step     float64
	}
	jobs := make([]agingJob, len(ids))
	for i, id := range ids {
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.entityManager, id)
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](ps.entityManager, id)
		scale := 1.0
		if cfg, ok := configs[p.Parent]; ok {
			scale = ps.timeScale.ScaleFor(cfg.UseScaledTime)
		}
		jobs[i] = agingJob{lifetime: lifetime, step: dt * scale}
	}

	ecs.ParallelFor(len(jobs), ps.batchSize, func(start, end int) {
		for i := start; i < end; i++ {
			jobs[i].lifetime.CurrentLifetime += jobs[i].step
		}
	})
}

// UpdateColors sets each particle's color from its emitter's color curve.
func (ps *ParticleSystem) UpdateColors(dt float64) {
	configs := ps.emitterConfigs()
	ids := ecs.GetEntitiesWith3[
		*components.ParticleComponent,
		*components.LifetimeComponent,
		*components.InstanceComponent,
	](ps.entityManager)

	type colorJob struct {
		color    *particle.ColorOverTime
		particle *components.ParticleComponent
		lifetime *components.LifetimeComponent
		instance *components.InstanceComponent
	}
	jobs := make([]colorJob, 0, len(ids))
	for _, id := range ids {
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.entityManager, id)
		cfg, ok := configs[p.Parent]
		if !ok {
			continue
		}
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](ps.entityManager, id)
		inst, _ := ecs.GetComponent[*components.InstanceComponent](ps.entityManager, id)
		jobs = append(jobs, colorJob{color: &cfg.Color, particle: p, lifetime: lifetime, instance: inst})
	}

	ecs.ParallelFor(len(jobs), ps.batchSize, func(start, end int) {
		for i := start; i < end; i++ {
			j := &jobs[i]
			if !j.color.UseGradient {
				j.instance.Color = j.color.Constant
				continue
			}
			j.instance.Color = j.color.At(lifePercent(j.lifetime, j.particle))
		}
	})
}

// UpdateTransforms integrates acceleration into velocity, moves the particle
// along its direction, updates its scale and accumulates travelled distance.
//
// Velocity integration uses the unscaled dt; the position step applies the
// emitter's time scale.
func (ps *ParticleSystem) UpdateTransforms(dt float64) {
	configs := ps.emitterConfigs()
	ids := ecs.GetEntitiesWith5[
		*components.ParticleComponent,
		*components.LifetimeComponent,
		*components.DirectionComponent,
		*components.VelocityComponent,
		*components.InstanceComponent,
	](ps.entityManager)
	ids = ecs.With[*components.DistanceTraveledComponent](ps.entityManager, ids)

	type transformJob struct {
		cfg       *particle.SystemConfig
		scale     float64
		particle  *components.ParticleComponent
		lifetime  *components.LifetimeComponent
		direction *components.DirectionComponent
		velocity  *components.VelocityComponent
		instance  *components.InstanceComponent
		distance  *components.DistanceTraveledComponent
	}
	jobs := make([]transformJob, 0, len(ids))
	for _, id := range ids {
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.entityManager, id)
		cfg, ok := configs[p.Parent]
		if !ok {
			continue
		}
		job := transformJob{cfg: cfg, scale: ps.timeScale.ScaleFor(cfg.UseScaledTime), particle: p}
		job.lifetime, _ = ecs.GetComponent[*components.LifetimeComponent](ps.entityManager, id)
		job.direction, _ = ecs.GetComponent[*components.DirectionComponent](ps.entityManager, id)
		job.velocity, _ = ecs.GetComponent[*components.VelocityComponent](ps.entityManager, id)
		job.instance, _ = ecs.GetComponent[*components.InstanceComponent](ps.entityManager, id)
		job.distance, _ = ecs.GetComponent[*components.DistanceTraveledComponent](ps.entityManager, id)
		jobs = append(jobs, job)
	}

	ecs.ParallelFor(len(jobs), ps.batchSize, func(start, end int) {
		for i := start; i < end; i++ {
			j := &jobs[i]
			pct := lifePercent(j.lifetime, j.particle)

			j.velocity.Speed += j.cfg.Acceleration.At(pct) * dt

			inst := j.instance
			oldX, oldY := inst.X, inst.Y
			step := j.velocity.Speed * dt * j.scale
			inst.X += j.direction.X * step
			inst.Y += j.direction.Y * step

			size := j.cfg.Scale.At(pct)
			inst.ScaleX, inst.ScaleY = size, size
			inst.MarkMoved()

			j.distance.Distance += math.Hypot(inst.X-oldX, inst.Y-oldY)
		}
	})
}

// CleanupParticles destroys particles that reached their lifetime or distance
// limit and decrements the parent emitter's particle count (never below 0).
func (ps *ParticleSystem) CleanupParticles(dt float64) {
	ids := ecs.GetEntitiesWith3[
		*components.ParticleComponent,
		*components.LifetimeComponent,
		*components.DistanceTraveledComponent,
	](ps.entityManager)

	for _, id := range ids {
		if ps.entityManager.IsPendingDestroy(id) {
			continue
		}
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.entityManager, id)
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](ps.entityManager, id)
		distance, _ := ecs.GetComponent[*components.DistanceTraveledComponent](ps.entityManager, id)

		expired := lifetime.CurrentLifetime >= p.MaxLifetime
		tooFar := p.HasMaxDistance && distance.Distance >= p.MaxDistance
		if !expired && !tooFar {
			continue
		}

		if count, ok := ecs.GetComponent[*components.ParticleCountComponent](ps.entityManager, p.Parent); ok {
			if count.Count > 0 {
				count.Count--
			}
		}
		ps.entityManager.DestroyEntity(id)
	}
}

// lifePercent returns how far the particle is through its lifetime.
func lifePercent(lifetime *components.LifetimeComponent, p *components.ParticleComponent) float64 {
	if p.MaxLifetime <= 0 {
		return 1
	}
	return lifetime.CurrentLifetime / p.MaxLifetime
}
