package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/game"
	"github.com/decker502/simcore/pkg/types"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func addTestEmitter(em *ecs.EntityManager, cfg *particle.SystemConfig, x, y float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.EmitterComponent{Config: cfg})
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.ParticleCountComponent{})
	ecs.AddComponent(em, id, &components.RunningStateComponent{})
	ecs.AddComponent(em, id, &components.BurstIndexComponent{})
	ecs.AddComponent(em, id, &components.PlayingComponent{})
	return id
}

// burstOnlyConfig 只通过爆发发射的配置（速率为 0）
func burstOnlyConfig(maxParticles int, duration float64, bursts ...particle.Burst) *particle.SystemConfig {
	cfg := particle.DefaultSystemConfig()
	cfg.MaxParticles = maxParticles
	cfg.SpawnRatePerSecond = particle.ConstantValue(0)
	cfg.Lifetime = particle.Fixed(100)
	cfg.SystemDurationSeconds = duration
	cfg.Bursts = bursts
	return &cfg
}

func particleCount(t *testing.T, em *ecs.EntityManager, emitter ecs.EntityID) int {
	t.Helper()
	c, ok := ecs.GetComponent[*components.ParticleCountComponent](em, emitter)
	if !ok {
		t.Fatalf("emitter %d has no ParticleCountComponent", emitter)
	}
	return c.Count
}

func liveParticles(em *ecs.EntityManager, parent ecs.EntityID) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleComponent](em) {
		p, _ := ecs.GetComponent[*components.ParticleComponent](em, id)
		if p.Parent == parent && !em.IsPendingDestroy(id) {
			out = append(out, id)
		}
	}
	return out
}

func stepParticles(ps *ParticleSystem, em *ecs.EntityManager, dt float64, frames int) {
	for i := 0; i < frames; i++ {
		ps.Update(dt)
		em.RemoveMarkedEntities()
	}
}

// TestBurstExact 爆发数量精确，且不受速率限流影响
func TestBurstExact(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(2000, 3,
		particle.Burst{Time: 0, Count: 1000},
		particle.Burst{Time: 2, Count: 1000},
	)
	cfg.Looping = false
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.1, 1)
	if got := particleCount(t, em, emitter); got != 1000 {
		t.Fatalf("after first frame: count = %d, want 1000", got)
	}

	stepParticles(ps, em, 0.1, 14) // rt = 1.5
	if got := particleCount(t, em, emitter); got != 1000 {
		t.Fatalf("before second burst: count = %d, want 1000", got)
	}

	stepParticles(ps, em, 0.1, 10) // rt = 2.5
	if got := particleCount(t, em, emitter); got != 2000 {
		t.Fatalf("after second burst: count = %d, want 2000", got)
	}
	if got := len(liveParticles(em, emitter)); got != 2000 {
		t.Errorf("live particles = %d, want 2000", got)
	}
}

// TestBurstClampedToCapacity 爆发不会超过剩余容量
func TestBurstClampedToCapacity(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(5, 10, particle.Burst{Time: 0, Count: 100})
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.1, 3)
	if got := particleCount(t, em, emitter); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
	if got := len(liveParticles(em, emitter)); got != 5 {
		t.Errorf("live particles = %d, want 5", got)
	}
}

// TestBurstLooping 循环时爆发索引重置
func TestBurstLooping(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(100, 1, particle.Burst{Time: 0.5, Count: 3})
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	// 0.25 的倍数在二进制下精确，爆发发生在 0.5、1.5、2.5 秒
	stepParticles(ps, em, 0.25, 11)
	if got := particleCount(t, em, emitter); got != 9 {
		t.Errorf("count = %d, want 9", got)
	}
	state, _ := ecs.GetComponent[*components.RunningStateComponent](em, emitter)
	if math.Abs(state.RunningTime-0.75) > 1e-9 {
		t.Errorf("running time = %v, want 0.75", state.RunningTime)
	}
}

// TestSpawnRate 每秒发射数量接近速率
func TestSpawnRate(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := particle.DefaultSystemConfig()
	cfg.MaxParticles = 1000
	cfg.SpawnRatePerSecond = particle.ConstantValue(10)
	cfg.Lifetime = particle.Fixed(100)
	cfg.SystemDurationSeconds = 10
	emitter := addTestEmitter(em, &cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.01, 1)
	if got := particleCount(t, em, emitter); got != 1 {
		t.Fatalf("first frame: count = %d, want 1 (forced spawn)", got)
	}

	stepParticles(ps, em, 0.01, 99)
	if got := particleCount(t, em, emitter); got < 9 || got > 10 {
		t.Errorf("after ~1s: count = %d, want 9 or 10", got)
	}

	// 每秒最多 floor(frac*rate) = 9 个，整秒边界处可能再强制发射 1 个
	stepParticles(ps, em, 0.01, 200)
	if got := particleCount(t, em, emitter); got < 27 || got > 28 {
		t.Errorf("after ~3s: count = %d, want 27 or 28", got)
	}
}

// TestForcedSpawnLowRate 速率低于 1 时每秒至少发射一个
func TestForcedSpawnLowRate(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := particle.DefaultSystemConfig()
	cfg.SpawnRatePerSecond = particle.ConstantValue(0.5)
	cfg.Lifetime = particle.Fixed(100)
	cfg.SystemDurationSeconds = 10
	emitter := addTestEmitter(em, &cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.125, 1)
	if got := particleCount(t, em, emitter); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	stepParticles(ps, em, 0.125, 6) // rt = 0.875
	if got := particleCount(t, em, emitter); got != 1 {
		t.Fatalf("count = %d, want 1 within the first second", got)
	}
	stepParticles(ps, em, 0.125, 2) // rt = 1.125
	if got := particleCount(t, em, emitter); got != 2 {
		t.Errorf("count = %d, want 2 after entering second 1", got)
	}
}

// TestZeroRateNoSpawn 速率为 0 且无爆发时不发射
func TestZeroRateNoSpawn(t *testing.T) {
	em := ecs.NewEntityManager()
	emitter := addTestEmitter(em, burstOnlyConfig(10, 5), 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.1, 20)
	if got := particleCount(t, em, emitter); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

// TestParticleLifetimeCleanup 粒子在寿命结束时销毁并减少计数
func TestParticleLifetimeCleanup(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(1, 100, particle.Burst{Time: 0, Count: 1})
	cfg.Lifetime = particle.Fixed(1)
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.25, 3)
	live := liveParticles(em, emitter)
	if len(live) != 1 {
		t.Fatalf("live particles = %d, want 1", len(live))
	}
	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, live[0])
	if lifetime.CurrentLifetime != 0.75 {
		t.Errorf("lifetime = %v, want 0.75", lifetime.CurrentLifetime)
	}

	stepParticles(ps, em, 0.25, 1)
	if em.EntityExists(live[0]) {
		t.Error("particle should be destroyed when its lifetime reaches 1.0")
	}
	if got := particleCount(t, em, emitter); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

// TestParticleMaxDistance 超过最大距离的粒子被销毁
func TestParticleMaxDistance(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(1, 100, particle.Burst{Time: 0, Count: 1})
	cfg.EmitterShape = 0
	cfg.InitialVelocity = particle.Fixed(10)
	maxDistance := 1.0
	cfg.MaxDistance = &maxDistance
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.05, 1)
	live := liveParticles(em, emitter)
	if len(live) != 1 {
		t.Fatalf("live particles = %d, want 1", len(live))
	}
	dist, _ := ecs.GetComponent[*components.DistanceTraveledComponent](em, live[0])
	if math.Abs(dist.Distance-0.5) > 1e-9 {
		t.Errorf("distance = %v, want 0.5", dist.Distance)
	}

	stepParticles(ps, em, 0.05, 1)
	if em.EntityExists(live[0]) {
		t.Error("particle should be destroyed after travelling MaxDistance")
	}
}

// TestCountConservation 计数始终等于存活粒子数，且在 [0, MaxParticles] 内
func TestCountConservation(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := particle.DefaultSystemConfig()
	cfg.MaxParticles = 20
	cfg.SpawnRatePerSecond = particle.ConstantValue(50)
	cfg.Lifetime = particle.Jittered(0.3, -0.2, 0.4)
	cfg.SystemDurationSeconds = 1.5
	cfg.Bursts = []particle.Burst{{Time: 0.2, Count: 15}, {Time: 1.0, Count: 30}}
	emitter := addTestEmitter(em, &cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	for frame := 0; frame < 500; frame++ {
		stepParticles(ps, em, 1.0/60, 1)
		count := particleCount(t, em, emitter)
		if count < 0 || count > cfg.MaxParticles {
			t.Fatalf("frame %d: count %d out of range", frame, count)
		}
		if live := len(liveParticles(em, emitter)); live != count {
			t.Fatalf("frame %d: count %d != live particles %d", frame, count, live)
		}
	}
}

// TestEmitterDespawnOnFinish 非循环发射器完成且粒子清空后销毁
func TestEmitterDespawnOnFinish(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := particle.DefaultSystemConfig()
	cfg.MaxParticles = 10
	cfg.SpawnRatePerSecond = particle.ConstantValue(5)
	cfg.SystemDurationSeconds = 2
	cfg.Looping = false
	cfg.DespawnOnFinish = true
	cfg.Lifetime = particle.Fixed(0.1)
	emitter := addTestEmitter(em, &cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.01, 150)
	if !em.EntityExists(emitter) {
		t.Fatal("emitter despawned too early")
	}

	stepParticles(ps, em, 0.01, 80) // ~2.3s
	if em.EntityExists(emitter) {
		t.Error("emitter should be despawned after finishing")
	}
	if got := len(ecs.GetEntitiesWith1[*components.ParticleComponent](em)); got != 0 {
		t.Errorf("particles left = %d, want 0", got)
	}
}

// TestEmitterPauseOnFinish 不销毁时移除 PlayingComponent，实体保留
func TestEmitterPauseOnFinish(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(10, 1, particle.Burst{Time: 0, Count: 3})
	cfg.Looping = false
	cfg.Lifetime = particle.Fixed(0.5)
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.25, 8)
	if !em.EntityExists(emitter) {
		t.Fatal("emitter should not be despawned")
	}
	if ecs.HasComponent[*components.PlayingComponent](em, emitter) {
		t.Error("PlayingComponent should be removed when finished")
	}
	if got := particleCount(t, em, emitter); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

// TestEmitterWaitsForParticles 完成后仍有存活粒子时不结束
func TestEmitterWaitsForParticles(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(10, 1, particle.Burst{Time: 0, Count: 2})
	cfg.Looping = false
	cfg.Lifetime = particle.Fixed(3)
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.25, 8) // 2 秒：系统已到时，粒子仍存活
	if !ecs.HasComponent[*components.PlayingComponent](em, emitter) {
		t.Fatal("emitter finished while particles are alive")
	}
	if got := particleCount(t, em, emitter); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}

	stepParticles(ps, em, 0.25, 6) // 3.5 秒
	if ecs.HasComponent[*components.PlayingComponent](em, emitter) {
		t.Error("emitter should finish once its particles are gone")
	}
}

// TestPausedEmitterKeepsAging 暂停的发射器不再发射，已有粒子继续老化
func TestPausedEmitterKeepsAging(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := particle.DefaultSystemConfig()
	cfg.SpawnRatePerSecond = particle.ConstantValue(100)
	cfg.Lifetime = particle.Fixed(0.5)
	emitter := addTestEmitter(em, &cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.05, 4)
	before := particleCount(t, em, emitter)
	if before == 0 {
		t.Fatal("expected particles before pausing")
	}

	ecs.RemoveComponent[*components.PlayingComponent](em, emitter)
	stepParticles(ps, em, 0.05, 20)
	if got := particleCount(t, em, emitter); got != 0 {
		t.Errorf("count = %d, want 0 after particles expire", got)
	}
	state, _ := ecs.GetComponent[*components.RunningStateComponent](em, emitter)
	if math.Abs(state.RunningTime-0.2) > 1e-9 {
		t.Errorf("running time advanced while paused: %v", state.RunningTime)
	}
}

// TestSpawnGeometry 发射位置在半径上，方向在发射锥内
func TestSpawnGeometry(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(500, 10, particle.Burst{Time: 0, Count: 500})
	cfg.EmitterAngle = math.Pi / 2
	cfg.EmitterShape = math.Pi / 2
	cfg.SpawnRadius = particle.Fixed(5)
	cfg.InitialVelocity = particle.Fixed(0)
	emitter := addTestEmitter(em, cfg, 100, -50)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.01, 1)

	live := liveParticles(em, emitter)
	if len(live) != 500 {
		t.Fatalf("live particles = %d, want 500", len(live))
	}
	minDirY := math.Sin(math.Pi/4) - 1e-9
	for _, id := range live {
		dir, _ := ecs.GetComponent[*components.DirectionComponent](em, id)
		if math.Abs(math.Hypot(dir.X, dir.Y)-1) > 1e-9 {
			t.Fatalf("direction not normalized: %+v", dir)
		}
		if dir.Y < minDirY {
			t.Fatalf("direction %+v outside the emitter cone", dir)
		}
		inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
		if d := math.Hypot(inst.X-100, inst.Y+50); math.Abs(d-5) > 1e-9 {
			t.Fatalf("spawn distance = %v, want 5", d)
		}
	}
}

// TestSpawnDeterministic 相同种子产生相同粒子
func TestSpawnDeterministic(t *testing.T) {
	run := func() []components.InstanceComponent {
		em := ecs.NewEntityManager()
		cfg := particle.DefaultSystemConfig()
		cfg.SpawnRadius = particle.Jittered(0, 0, 10)
		cfg.InitialVelocity = particle.Jittered(50, -10, 10)
		emitter := addTestEmitter(em, &cfg, 0, 0)
		ps := NewParticleSystem(em, rand.New(rand.NewPCG(42, 7)), nil)
		stepParticles(ps, em, 0.02, 30)

		var out []components.InstanceComponent
		for _, id := range liveParticles(em, emitter) {
			inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
			out = append(out, *inst)
		}
		return out
	}

	a, b := run(), run()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("particle counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// TestTimeScale 使用缩放时间的发射器按比例推进
func TestTimeScale(t *testing.T) {
	tests := []struct {
		name      string
		scale     *game.TimeScale
		useScaled bool
		wantX     float64
		wantTime  float64
	}{
		{"缩放时间", &game.TimeScale{Value: 2}, true, 2, 0.2},
		{"不使用缩放", &game.TimeScale{Value: 2}, false, 1, 0.1},
		{"无缩放资源", nil, true, 1, 0.1},
		{"暂停", &game.TimeScale{Value: 0}, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			cfg := burstOnlyConfig(1, 10, particle.Burst{Time: 0, Count: 1})
			cfg.EmitterShape = 0
			cfg.InitialVelocity = particle.Fixed(10)
			cfg.UseScaledTime = tt.useScaled
			emitter := addTestEmitter(em, cfg, 0, 0)
			ps := NewParticleSystem(em, newTestRand(), tt.scale)

			stepParticles(ps, em, 0.1, 1)

			state, _ := ecs.GetComponent[*components.RunningStateComponent](em, emitter)
			if math.Abs(state.RunningTime-tt.wantTime) > 1e-9 {
				t.Errorf("running time = %v, want %v", state.RunningTime, tt.wantTime)
			}
			live := liveParticles(em, emitter)
			if len(live) != 1 {
				t.Fatalf("live particles = %d, want 1", len(live))
			}
			inst, _ := ecs.GetComponent[*components.InstanceComponent](em, live[0])
			if math.Abs(inst.X-tt.wantX) > 1e-9 {
				t.Errorf("x = %v, want %v", inst.X, tt.wantX)
			}
			lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, live[0])
			if math.Abs(lifetime.CurrentLifetime-tt.wantTime) > 1e-9 {
				t.Errorf("lifetime = %v, want %v", lifetime.CurrentLifetime, tt.wantTime)
			}
		})
	}
}

// TestParticleColorAndScale 颜色与缩放按生命百分比取值
func TestParticleColorAndScale(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(1, 10, particle.Burst{Time: 0, Count: 1})
	cfg.Lifetime = particle.Fixed(1)
	cfg.InitialVelocity = particle.Fixed(0)
	cfg.Color = particle.GradientColor(particle.NewGradient(
		particle.ColorPoint{Color: types.White, Position: 0},
		particle.ColorPoint{Color: types.Black, Position: 1},
	))
	cfg.Scale = particle.GradientValue(
		particle.ValuePoint{Value: 2, Position: 0},
		particle.ValuePoint{Value: 4, Position: 1},
	)
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.5, 1)
	live := liveParticles(em, emitter)
	if len(live) != 1 {
		t.Fatalf("live particles = %d, want 1", len(live))
	}
	inst, _ := ecs.GetComponent[*components.InstanceComponent](em, live[0])
	if math.Abs(float64(inst.Color.R)-0.5) > 1e-6 || inst.Color.A != 1 {
		t.Errorf("color = %+v, want mid gray", inst.Color)
	}
	if math.Abs(inst.ScaleX-3) > 1e-9 || inst.ScaleX != inst.ScaleY {
		t.Errorf("scale = (%v, %v), want (3, 3)", inst.ScaleX, inst.ScaleY)
	}
}

// TestAcceleration 加速度使用未缩放的 dt 积分
func TestAcceleration(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(1, 10, particle.Burst{Time: 0, Count: 1})
	cfg.EmitterShape = 0
	cfg.InitialVelocity = particle.Fixed(0)
	cfg.Acceleration = particle.ConstantValue(10)
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.5, 2)
	live := liveParticles(em, emitter)
	if len(live) != 1 {
		t.Fatalf("live particles = %d, want 1", len(live))
	}
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, live[0])
	if math.Abs(vel.Speed-10) > 1e-9 {
		t.Errorf("speed = %v, want 10", vel.Speed)
	}
	// 第一帧 v=5 移动 2.5，第二帧 v=10 移动 5
	inst, _ := ecs.GetComponent[*components.InstanceComponent](em, live[0])
	if math.Abs(inst.X-7.5) > 1e-9 {
		t.Errorf("x = %v, want 7.5", inst.X)
	}
}

// TestOrphanParticles 发射器销毁后粒子按 1 倍速老化并被清理
func TestOrphanParticles(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := burstOnlyConfig(3, 10, particle.Burst{Time: 0, Count: 3})
	cfg.Lifetime = particle.Fixed(1)
	emitter := addTestEmitter(em, cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	stepParticles(ps, em, 0.25, 1)
	live := liveParticles(em, emitter)
	if len(live) != 3 {
		t.Fatalf("live particles = %d, want 3", len(live))
	}
	em.DestroyEntity(emitter)
	em.RemoveMarkedEntities()

	stepParticles(ps, em, 0.25, 2)
	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, live[0])
	if lifetime.CurrentLifetime != 0.75 {
		t.Errorf("lifetime = %v, want 0.75", lifetime.CurrentLifetime)
	}

	stepParticles(ps, em, 0.25, 1)
	if got := len(ecs.GetEntitiesWith1[*components.ParticleComponent](em)); got != 0 {
		t.Errorf("orphan particles left = %d, want 0", got)
	}
}

// TestParallelParticleUpdate 多批次并行与单批次结果一致
func TestParallelParticleUpdate(t *testing.T) {
	run := func(batch int) []components.InstanceComponent {
		em := ecs.NewEntityManager()
		cfg := burstOnlyConfig(1000, 10, particle.Burst{Time: 0, Count: 1000})
		cfg.Lifetime = particle.Jittered(1, 0, 2)
		cfg.Acceleration = particle.SineValue(particle.SinWave{Amplitude: 150, Period: 5})
		emitter := addTestEmitter(em, cfg, 0, 0)
		ps := NewParticleSystem(em, newTestRand(), nil)
		ps.SetBatchSize(batch)
		stepParticles(ps, em, 1.0/60, 30)

		var out []components.InstanceComponent
		for _, id := range liveParticles(em, emitter) {
			inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
			out = append(out, *inst)
		}
		return out
	}

	seq, par := run(1<<20), run(16)
	if len(seq) != len(par) {
		t.Fatalf("particle counts differ: %d vs %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("particle %d differs", i)
		}
	}
}

func BenchmarkParticleSystem(b *testing.B) {
	em := ecs.NewEntityManager()
	cfg := particle.DefaultSystemConfig()
	cfg.MaxParticles = 10000
	cfg.SpawnRatePerSecond = particle.ConstantValue(5000)
	cfg.Lifetime = particle.Jittered(2, -0.5, 0.5)
	addTestEmitter(em, &cfg, 0, 0)
	ps := NewParticleSystem(em, newTestRand(), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ps.Update(1.0 / 60)
		em.RemoveMarkedEntities()
	}
}
