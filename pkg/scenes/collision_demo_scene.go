package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/app"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/entities"
	"github.com/decker502/simcore/pkg/systems"
	"github.com/decker502/simcore/pkg/types"
	"github.com/decker502/simcore/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// 碰撞通道标签
type (
	bulletChannel struct{}
	pickupChannel struct{}
)

// 演示参数
const (
	bulletSpeed    = 600.0 // 像素/秒
	bulletSize     = 8.0
	playerSize     = 40.0
	playerSpeed    = 300.0 // 像素/秒
	targetSize     = 50.0
	pickupSize     = 20.0
	targetTripTime = 2.5 // 目标单程移动时间（秒）
	sparkPreset    = "sparks"
)

var (
	targetColor = types.RGBA(0.3, 0.7, 1, 1)
	hitColor    = types.RGBA(1, 0.2, 0.2, 1)
	pickupColor = types.RGBA(1, 0.85, 0.2, 1)
)

// patrol 目标往返移动的两个端点
type patrol struct {
	fromX, fromY, toX, toY float64
}

// collisionWorld 碰撞演示的模拟状态，不依赖窗口和输入
//
// 两个通道:
//   - bullet: 子弹（Collider）检测目标（CollidesWith）
//   - pickup: 玩家（Collider）检测拾取物（CollidesWith）
type collisionWorld struct {
	sim     *app.Simulation
	library *particle.Library
	rng     *rand.Rand

	bullets *systems.CollisionSystem[bulletChannel]
	pickups *systems.CollisionSystem[pickupChannel]

	player  ecs.EntityID
	patrols map[ecs.EntityID]patrol

	width, height float64
	hits          int
	collected     int
}

func newCollisionWorld(cfg *config.SimulationConfig, lib *particle.Library, seed uint64, width, height float64) (*collisionWorld, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	sim, err := app.NewSimulation(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	w := &collisionWorld{
		sim:     sim,
		library: lib,
		rng:     rng,
		patrols: make(map[ecs.EntityID]patrol),
		width:   width,
		height:  height,
	}
	if w.bullets, err = app.RegisterCollisionChannel[bulletChannel](sim, "bullet"); err != nil {
		return nil, err
	}
	if w.pickups, err = app.RegisterCollisionChannel[pickupChannel](sim, "pickup"); err != nil {
		return nil, err
	}

	w.player = entities.NewCollidableInstance(sim.EntityManager, width/2, height-80, playerSize, playerSize, systems.ShapeSquare)
	entities.AddCollider[pickupChannel](sim.EntityManager, w.player)
	return w, nil
}

// populate 放置默认的目标和拾取物
func (w *collisionWorld) populate(targets, pickups int) {
	for i := 0; i < targets; i++ {
		y := 80 + float64(i)*70
		w.addTarget(60, y, w.width-60, y)
	}
	for i := 0; i < pickups; i++ {
		w.addPickup(w.randomPickupPosition())
	}
}

// addTarget 添加在 (x1, y1) 与 (x2, y2) 之间往返的目标，两点相同时静止
func (w *collisionWorld) addTarget(x1, y1, x2, y2 float64) ecs.EntityID {
	em := w.sim.EntityManager
	id := entities.NewCollidableInstance(em, x1, y1, targetSize, targetSize, systems.ShapeCircle)
	inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
	inst.Color = targetColor
	entities.AddCollidesWith[bulletChannel](em, id)
	if x1 != x2 || y1 != y2 {
		w.patrols[id] = patrol{fromX: x1, fromY: y1, toX: x2, toY: y2}
	}
	return id
}

// addPickup 添加一个拾取物，出现时带缩放动画，形状在方形和圆形之间切换
func (w *collisionWorld) addPickup(x, y float64) ecs.EntityID {
	em := w.sim.EntityManager
	id := entities.NewCollidableInstance(em, x, y, 0, 0, systems.ShapeSquare)
	inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
	inst.Color = pickupColor
	entities.AddCollidesWith[pickupChannel](em, id)

	addTween(em, id, components.NewScaleTween(0, 0, pickupSize, pickupSize, 0.4, ease.OutBack))
	ecs.AddComponent(em, id, &components.ShapeAnimationComponent{
		Frames: []components.ShapeFrame{
			{ShapeID: systems.ShapeSquare, Duration: 0.25},
			{ShapeID: systems.ShapeCircle, Duration: 0.25},
		},
		IsLooping: true,
	})
	return id
}

func (w *collisionWorld) randomPickupPosition() (float64, float64) {
	x := pickupSize + w.rng.Float64()*(w.width-2*pickupSize)
	y := w.height/2 + w.rng.Float64()*(w.height/2-pickupSize)
	return x, y
}

// addTween 在实体现有补间之外追加一个补间
func addTween(em *ecs.EntityManager, id ecs.EntityID, tw components.Tween) {
	if tc, ok := ecs.GetComponent[*components.TweenComponent](em, id); ok {
		tc.Tweens = append(tc.Tweens, tw)
		return
	}
	ecs.AddComponent(em, id, &components.TweenComponent{Tweens: []components.Tween{tw}})
}

// fire 从玩家位置向 (x, y) 发射子弹，子弹到达终点后消失
func (w *collisionWorld) fire(x, y float64) ecs.EntityID {
	em := w.sim.EntityManager
	player, _ := ecs.GetComponent[*components.InstanceComponent](em, w.player)

	dist := math.Hypot(x-player.X, y-player.Y)
	if dist == 0 {
		return 0
	}
	id := entities.NewCollidableInstance(em, player.X, player.Y, bulletSize, bulletSize, systems.ShapeCircle)
	entities.AddCollider[bulletChannel](em, id)
	addTween(em, id, components.NewPositionTween(player.X, player.Y, x, y, float32(dist/bulletSpeed), nil))
	return id
}

// movePlayer 按方向移动玩家，限制在场景范围内
func (w *collisionWorld) movePlayer(dx, dy, dt float64) {
	if dx == 0 && dy == 0 {
		return
	}
	inst, ok := ecs.GetComponent[*components.InstanceComponent](w.sim.EntityManager, w.player)
	if !ok {
		return
	}
	half := playerSize / 2
	x := math.Max(half, math.Min(w.width-half, inst.X+dx*playerSpeed*dt))
	y := math.Max(half, math.Min(w.height-half, inst.Y+dy*playerSpeed*dt))
	inst.MoveTo(x, y)
}

// step 推进一帧并处理本帧的碰撞结果
func (w *collisionWorld) step(dt float64) {
	w.sim.Step(dt)
	w.resolveBullets()
	w.resolvePickups()
	w.updatePatrols()
	w.sim.EntityManager.RemoveMarkedEntities()
}

func (w *collisionWorld) resolveBullets() {
	em := w.sim.EntityManager
	for _, id := range ecs.GetEntitiesWith1[*components.ColliderComponent[bulletChannel]](em) {
		hits := entities.CollidingEntities[bulletChannel](em, id)
		if len(hits) == 0 {
			// 飞行结束仍未命中
			if !ecs.HasComponent[*components.TweenComponent](em, id) {
				em.DestroyEntity(id)
			}
			continue
		}

		bullet, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
		w.spawnSparks(bullet.X, bullet.Y)
		em.DestroyEntity(id)

		for _, target := range hits {
			addTween(em, target, components.NewColorTween(hitColor, targetColor, 0.3, ease.OutQuad))
		}
		w.hits++
		log.Printf("[CollisionDemo] Bullet %d hit %d target(s), total hits: %d", id, len(hits), w.hits)
	}
}

func (w *collisionWorld) resolvePickups() {
	em := w.sim.EntityManager
	for _, id := range entities.CollidingEntities[pickupChannel](em, w.player) {
		if em.IsPendingDestroy(id) {
			continue
		}
		em.DestroyEntity(id)
		w.collected++
		w.addPickup(w.randomPickupPosition())
	}
}

// updatePatrols 补间结束的目标掉头
func (w *collisionWorld) updatePatrols() {
	em := w.sim.EntityManager
	for id, p := range w.patrols {
		if !em.EntityExists(id) {
			delete(w.patrols, id)
			continue
		}
		if ecs.HasComponent[*components.TweenComponent](em, id) {
			continue
		}
		inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
		fromX, fromY, toX, toY := p.fromX, p.fromY, p.toX, p.toY
		if math.Abs(inst.X-toX) < 0.5 && math.Abs(inst.Y-toY) < 0.5 {
			fromX, fromY, toX, toY = toX, toY, fromX, fromY
		}
		addTween(em, id, components.NewPositionTween(fromX, fromY, toX, toY, targetTripTime, ease.InOutSine))
	}
}

// spawnSparks 在命中点生成一次性粒子效果
func (w *collisionWorld) spawnSparks(x, y float64) {
	em := w.sim.EntityManager
	if w.library != nil {
		if _, err := entities.CreateParticleEffect(em, w.library, sparkPreset, x, y); err == nil {
			return
		}
	}
	if _, err := entities.NewParticleEmitter(em, defaultSparks, x, y); err != nil {
		log.Printf("[CollisionDemo] Failed to spawn sparks: %v", err)
	}
}

// defaultSparks 预设库中没有 sparks 时使用的命中效果
var defaultSparks = func() *particle.SystemConfig {
	cfg := particle.DefaultSystemConfig()
	cfg.Name = sparkPreset
	cfg.ShapeID = systems.ShapeCircle
	cfg.SpawnRatePerSecond = particle.ConstantValue(0)
	cfg.Bursts = []particle.Burst{{Time: 0, Count: 16}}
	cfg.Looping = false
	cfg.DespawnOnFinish = true
	cfg.SystemDurationSeconds = 0.5
	cfg.InitialVelocity = particle.Jittered(160, -60, 60)
	cfg.Lifetime = particle.Jittered(0.35, -0.1, 0.15)
	cfg.Scale = particle.ConstantValue(4)
	cfg.Color = particle.GradientColor(particle.NewGradient(
		particle.ColorPoint{Color: types.RGBA(1, 0.9, 0.3, 1), Position: 0},
		particle.ColorPoint{Color: types.RGBA(1, 0.3, 0, 0), Position: 1},
	))
	return &cfg
}()

// CollisionDemoScene 空间哈希碰撞演示
//
// Controls:
//
//	Arrow keys/WASD - Move player (collects pickups)
//	Click/Tap       - Fire bullet toward cursor
//	G               - Toggle collision grid overlay
//	T               - Spawn an extra moving target
type CollisionDemoScene struct {
	*collisionWorld
	render *systems.RenderSystem
}

// NewCollisionDemoScene 创建碰撞演示场景
func NewCollisionDemoScene(opts ViewerOptions, seed uint64) (*CollisionDemoScene, error) {
	w, err := newCollisionWorld(opts.Config, opts.Library, seed, float64(opts.Width), float64(opts.Height))
	if err != nil {
		return nil, err
	}
	w.populate(5, 6)

	s := &CollisionDemoScene{
		collisionWorld: w,
		render:         systems.NewRenderSystem(w.sim.EntityManager),
	}
	s.render.GridSize = w.sim.Config().GridSize
	if opts.Settings != nil {
		s.render.ShowGrid = opts.Settings.GetSettings().ShowGrid
	}
	log.Printf("[CollisionDemo] Initialized: %d entities", w.sim.EntityManager.EntityCount())
	return s, nil
}

// Update 处理输入并推进模拟
func (s *CollisionDemoScene) Update(deltaTime float64) {
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		dy--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		dy++
	}
	s.movePlayer(dx, dy, deltaTime)

	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		s.fire(float64(x), float64(y))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		s.render.ShowGrid = !s.render.ShowGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		y := 80 + s.rng.Float64()*(s.height/2-80)
		s.addTarget(60, y, s.width-60, y)
	}

	s.step(deltaTime)
}

// Draw 绘制实体和统计信息
func (s *CollisionDemoScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 24, 32, 255})
	s.render.Draw(screen)

	lines := []string{
		"Collision Demo",
		fmt.Sprintf("Hits: %d  Collected: %d  Entities: %d", s.hits, s.collected, s.sim.EntityManager.EntityCount()),
		fmt.Sprintf("TPS: %.0f  FPS: %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()),
		"Arrows/WASD = Move  Click = Fire  T = Add target  G = Grid",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*20)
	}
}
