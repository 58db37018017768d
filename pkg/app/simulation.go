package app

import (
	"fmt"
	"math/rand/v2"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/game"
	"github.com/decker502/simcore/pkg/systems"
)

// 调度器中的系统标签
const (
	LabelTween             = "tween"
	LabelShapeAnimation    = "shape_animation"
	LabelParticleSpawn     = "particle_spawn"
	LabelParticleLifetime  = "particle_lifetime"
	LabelParticleColor     = "particle_color"
	LabelParticleTransform = "particle_transform"
	LabelParticleCleanup   = "particle_cleanup"
	LabelCollisionUpdate   = "collision_update"
	collisionChannelPrefix = "collision:"
)

// Simulation 组装实体管理器、调度器和所有模拟系统
//
// 每帧执行顺序：
//   - PreUpdate: tween, shape_animation
//   - Update: particle_spawn → particle_lifetime → particle_color → particle_transform → particle_cleanup
//   - PostUpdate: collision_update → collision:<tag>...
//
// 帧末统一清理标记删除的实体。渲染不在这里，由 RenderSystem 在 Draw 中完成。
type Simulation struct {
	EntityManager *ecs.EntityManager
	Scheduler     *game.Scheduler
	Time          *game.Time
	TimeScale     *game.TimeScale

	Grid      *systems.HashGridSystem
	Particles *systems.ParticleSystem
	Tweens    *systems.TweenSystem
	Shapes    *systems.ShapeAnimationSystem

	config *config.SimulationConfig
}

// NewSimulation 根据配置创建模拟
//
// cfg 为 nil 时使用默认配置。rng 为 nil 时：cfg.Seed 非 0 则使用该种子，
// 否则使用随机种子。
func NewSimulation(cfg *config.SimulationConfig, rng particle.RandomSource) (*Simulation, error) {
	if cfg == nil {
		cfg = config.DefaultSimulationConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if rng == nil && cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	em := ecs.NewEntityManager()
	s := &Simulation{
		EntityManager: em,
		Scheduler:     game.NewScheduler(em),
		Time:          game.NewTime(),
		TimeScale:     &game.TimeScale{Value: cfg.TimeScale},
		Grid:          systems.NewHashGridSystem(em, cfg.GridSize, cfg.BatchSize),
		Tweens:        systems.NewTweenSystem(em),
		Shapes:        systems.NewShapeAnimationSystem(em),
		config:        cfg,
	}
	s.Particles = systems.NewParticleSystem(em, rng, s.TimeScale)
	s.Particles.SetBatchSize(cfg.BatchSize)

	registrations := []struct {
		stage game.Stage
		label string
		run   game.SystemFunc
		after []string
	}{
		{game.StagePreUpdate, LabelTween, s.Tweens.Update, nil},
		{game.StagePreUpdate, LabelShapeAnimation, s.Shapes.Update, nil},
		{game.StageUpdate, LabelParticleSpawn, s.Particles.SpawnParticles, nil},
		{game.StageUpdate, LabelParticleLifetime, s.Particles.UpdateLifetimes, []string{LabelParticleSpawn}},
		{game.StageUpdate, LabelParticleColor, s.Particles.UpdateColors, []string{LabelParticleLifetime}},
		{game.StageUpdate, LabelParticleTransform, s.Particles.UpdateTransforms, []string{LabelParticleColor}},
		{game.StageUpdate, LabelParticleCleanup, s.Particles.CleanupParticles, []string{LabelParticleTransform}},
		{game.StagePostUpdate, LabelCollisionUpdate, s.Grid.Update, nil},
	}
	for _, r := range registrations {
		if err := s.Scheduler.Add(r.stage, r.label, r.run, r.after...); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", r.label, err)
		}
	}
	if err := s.Scheduler.Build(); err != nil {
		return nil, fmt.Errorf("failed to build system order: %w", err)
	}
	return s, nil
}

// Config 返回模拟使用的配置
func (s *Simulation) Config() *config.SimulationConfig {
	return s.config
}

// Step 推进一帧
func (s *Simulation) Step(deltaTime float64) {
	s.Time.Advance(deltaTime)
	s.Scheduler.Update(s.Time.Delta())
}

// CollisionChannelLabel 返回碰撞通道在调度器中的标签
func CollisionChannelLabel(tag string) string {
	return collisionChannelPrefix + tag
}

// RegisterCollisionChannel 为标签类型 T 注册一个碰撞通道
//
// 通道系统在 collision_update 之后运行。同一个 tag 只能注册一次。
//
//	type Bullet struct{}
//	bullets, err := app.RegisterCollisionChannel[Bullet](sim, "bullet")
func RegisterCollisionChannel[T any](s *Simulation, tag string) (*systems.CollisionSystem[T], error) {
	sys := systems.NewCollisionSystem[T](s.EntityManager, s.Grid.GridSize(), s.config.BatchSize)
	label := CollisionChannelLabel(tag)
	if err := s.Scheduler.Add(game.StagePostUpdate, label, sys.Update, LabelCollisionUpdate); err != nil {
		return nil, fmt.Errorf("failed to register collision channel %q: %w", tag, err)
	}
	return sys, nil
}
