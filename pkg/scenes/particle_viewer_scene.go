package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/app"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/entities"
	"github.com/decker502/simcore/pkg/game"
	"github.com/decker502/simcore/pkg/systems"
	"github.com/decker502/simcore/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// timeScaleStep 每次按键调整的时间缩放量
const timeScaleStep = 0.25

// clickTolerance 拖拽距离不超过该值（像素）时视为点击
const clickTolerance = 4

// ViewerOptions 查看器场景的依赖
type ViewerOptions struct {
	Config   *config.SimulationConfig
	Library  *particle.Library
	Settings *game.SettingsManager // 可为 nil（不持久化）
	Rand     particle.RandomSource // 可为 nil
	Width    int
	Height   int

	// Filter 初始过滤条件（查看器），无匹配时显示全部
	Filter string
	// AutoPlay 自动切换到下一个预设的间隔（秒），0 表示关闭
	AutoPlay float64
}

// particleViewer 查看器的模拟状态，不依赖窗口和输入
type particleViewer struct {
	sim      *app.Simulation
	library  *particle.Library
	browser  *PresetBrowser
	settings *game.SettingsManager

	width, height int
	paused        bool
	status        string

	autoPlay  float64
	autoTimer float64
}

func newParticleViewer(opts ViewerOptions) (*particleViewer, error) {
	if opts.Library == nil || opts.Library.Len() == 0 {
		return nil, fmt.Errorf("no particle presets loaded")
	}
	sim, err := app.NewSimulation(opts.Config, opts.Rand)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	if opts.Settings == nil {
		opts.Settings = game.NewSettingsManager(nil)
	}

	v := &particleViewer{
		sim:      sim,
		library:  opts.Library,
		browser:  NewPresetBrowser(opts.Library.Names()),
		settings: opts.Settings,
		width:    opts.Width,
		height:   opts.Height,
		autoPlay: opts.AutoPlay,
	}

	if opts.Filter != "" {
		v.browser.SetFilter(opts.Filter)
		if _, total := v.browser.Position(); total == 0 {
			log.Printf("[ParticleViewer] Warning: No presets match initial filter %q, showing all", opts.Filter)
			v.browser.SetFilter("")
		}
	}

	settings := v.settings.GetSettings()
	sim.TimeScale.Value = settings.TimeScale
	if settings.LastPreset != "" && !v.browser.Select(settings.LastPreset) {
		log.Printf("[ParticleViewer] Last preset %q no longer exists", settings.LastPreset)
	}
	return v, nil
}

// spawnCurrent 在世界坐标 (x, y) 生成当前预设
func (v *particleViewer) spawnCurrent(x, y float64) (ecs.EntityID, error) {
	name := v.browser.Current()
	if name == "" {
		v.status = "No presets match current filter"
		return 0, fmt.Errorf("no preset selected")
	}

	id, err := entities.CreateParticleEffect(v.sim.EntityManager, v.library, name, x, y)
	if err != nil {
		log.Printf("[ParticleViewer] Failed to create effect %s: %v", name, err)
		v.status = fmt.Sprintf("Error: %v", err)
		return 0, err
	}
	v.settings.SetLastPreset(name)
	v.status = fmt.Sprintf("Spawned: %s at (%.0f, %.0f)", name, x, y)
	log.Printf("[ParticleViewer] Spawned effect: %s at (%.0f, %.0f)", name, x, y)
	return id, nil
}

// selectAndSpawn 切换预设后在屏幕中心生成
func (v *particleViewer) selectAndSpawn(move func(), cameraX, cameraY float64) {
	move()
	v.spawnCurrent(cameraX+float64(v.width)/2, cameraY+float64(v.height)/2)
}

// adjustTimeScale 修改全局时间缩放，范围由 SettingsManager 限制
func (v *particleViewer) adjustTimeScale(delta float64) {
	v.settings.SetTimeScale(v.settings.GetSettings().TimeScale + delta)
	v.sim.TimeScale.Value = v.settings.GetSettings().TimeScale
	v.status = fmt.Sprintf("Time scale: %.2fx", v.sim.TimeScale.Value)
}

// clear 删除所有粒子和发射器
func (v *particleViewer) clear() {
	em := v.sim.EntityManager
	particles := ecs.GetEntitiesWith1[*components.ParticleComponent](em)
	emitters := ecs.GetEntitiesWith1[*components.EmitterComponent](em)
	for _, id := range particles {
		em.DestroyEntity(id)
	}
	for _, id := range emitters {
		em.DestroyEntity(id)
	}
	em.RemoveMarkedEntities()
	v.status = "Cleared all particles"
	log.Printf("[ParticleViewer] Cleared %d particles and %d emitters", len(particles), len(emitters))
}

// step 推进模拟，暂停时不推进
func (v *particleViewer) step(dt float64) {
	if v.paused {
		return
	}
	v.advanceAutoPlay(dt)
	v.sim.Step(dt)
}

// advanceAutoPlay 自动播放模式下每隔 autoPlay 秒切换到下一个预设并在中心生成
func (v *particleViewer) advanceAutoPlay(dt float64) {
	if v.autoPlay <= 0 {
		return
	}
	v.autoTimer += dt
	if v.autoTimer < v.autoPlay {
		return
	}
	v.autoTimer -= v.autoPlay
	v.browser.Move(1)
	v.spawnCurrent(float64(v.width)/2, float64(v.height)/2)
}

func (v *particleViewer) counts() (emitters, particles int) {
	em := v.sim.EntityManager
	return len(ecs.GetEntitiesWith1[*components.EmitterComponent](em)),
		len(ecs.GetEntitiesWith1[*components.ParticleComponent](em))
}

// ParticleViewerScene 浏览并播放粒子预设
//
// Controls:
//
//	Click/Tap         - Spawn preset at cursor
//	Drag              - Pan camera
//	Left/Right Arrow  - Previous/next preset
//	Page Up/Down      - Jump 10 presets
//	Home/End          - First/last preset
//	Space             - Spawn preset at screen center
//	F or /            - Search mode
//	R                 - Clear all particles
//	P                 - Pause simulation
//	- / =             - Decrease/increase time scale
//	G                 - Toggle collision grid overlay
type ParticleViewerScene struct {
	*particleViewer
	render *systems.RenderSystem
	drag   *utils.DragManager

	dragCameraX, dragCameraY float64
	searchMode               bool
}

// NewParticleViewerScene 创建查看器场景并在屏幕中心生成当前预设
func NewParticleViewerScene(opts ViewerOptions) (*ParticleViewerScene, error) {
	v, err := newParticleViewer(opts)
	if err != nil {
		return nil, err
	}
	s := &ParticleViewerScene{
		particleViewer: v,
		render:         systems.NewRenderSystem(v.sim.EntityManager),
		drag:           utils.NewDragManager(),
	}
	s.render.GridSize = v.sim.Config().GridSize
	s.render.ShowGrid = v.settings.GetSettings().ShowGrid

	s.spawnCurrent(float64(v.width)/2, float64(v.height)/2)
	log.Printf("[ParticleViewer] Initialized with %d presets", v.browser.Total())
	return s, nil
}

// Update 处理输入并推进模拟
func (s *ParticleViewerScene) Update(deltaTime float64) {
	if s.searchMode {
		s.updateSearchMode()
	} else {
		s.updateNormalMode()
	}
	s.updatePointer()
	s.step(deltaTime)
}

func (s *ParticleViewerScene) updateSearchMode() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.searchMode = false
		_, total := s.browser.Position()
		s.status = fmt.Sprintf("Search: %q (%d results)", s.browser.Filter(), total)
		return
	}

	query := s.browser.Filter()
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(query) > 0 {
		s.browser.SetFilter(query[:len(query)-1])
		return
	}

	runes := ebiten.AppendInputChars(nil)
	if len(runes) == 0 {
		return
	}
	for _, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			query += string(r)
		}
	}
	s.browser.SetFilter(query)
}

func (s *ParticleViewerScene) updateNormalMode() {
	camX, camY := s.render.CameraX, s.render.CameraY

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF), inpututil.IsKeyJustPressed(ebiten.KeySlash):
		s.searchMode = true
		s.status = "Search mode: Type to filter presets..."
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		s.selectAndSpawn(func() { s.browser.Move(-1) }, camX, camY)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		s.selectAndSpawn(func() { s.browser.Move(1) }, camX, camY)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.selectAndSpawn(func() { s.browser.Move(-10) }, camX, camY)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		s.selectAndSpawn(func() { s.browser.Move(10) }, camX, camY)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		s.selectAndSpawn(s.browser.First, camX, camY)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		s.selectAndSpawn(s.browser.Last, camX, camY)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.spawnCurrent(camX+float64(s.width)/2, camY+float64(s.height)/2)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.paused = !s.paused
		if s.paused {
			s.status = "PAUSED - Press P to resume"
		} else {
			s.status = "Resumed"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.adjustTimeScale(-timeScaleStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.adjustTimeScale(timeScaleStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		s.render.ShowGrid = !s.render.ShowGrid
		s.settings.SetShowGrid(s.render.ShowGrid)
	}
}

// updatePointer 拖拽平移摄像机，短距离释放视为点击
func (s *ParticleViewerScene) updatePointer() {
	s.drag.Update()
	info := s.drag.GetInfo()

	switch {
	case s.drag.JustStarted():
		s.dragCameraX, s.dragCameraY = s.render.CameraX, s.render.CameraY
	case s.drag.IsDragging():
		dx, dy := s.drag.GetDragDistance()
		s.render.CameraX = s.dragCameraX - float64(dx)
		s.render.CameraY = s.dragCameraY - float64(dy)
	case s.drag.JustEnded():
		dx, dy := s.drag.GetDragDistance()
		if abs(dx) <= clickTolerance && abs(dy) <= clickTolerance {
			s.render.CameraX, s.render.CameraY = s.dragCameraX, s.dragCameraY
			s.spawnCurrent(s.render.CameraX+float64(info.StartX), s.render.CameraY+float64(info.StartY))
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Draw 绘制粒子和信息面板
func (s *ParticleViewerScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{25, 25, 38, 255})
	s.render.Draw(screen)
	s.drawUI(screen)
}

func (s *ParticleViewerScene) drawUI(screen *ebiten.Image) {
	pos, total := s.browser.Position()
	if total == 0 {
		ebitenutil.DebugPrintAt(screen, "No presets match current filter", 10, 10)
	} else {
		title := fmt.Sprintf("Particle Viewer - %s (%d/%d)", s.browser.Current(), pos, total)
		ebitenutil.DebugPrintAt(screen, title, 10, 10)
	}

	emitters, particles := s.counts()
	lines := []string{
		fmt.Sprintf("Emitters: %d  Particles: %d  Entities: %d", emitters, particles, s.sim.EntityManager.EntityCount()),
		fmt.Sprintf("Time scale: %.2fx  TPS: %.0f  FPS: %.0f", s.sim.TimeScale.Value, ebiten.ActualTPS(), ebiten.ActualFPS()),
	}
	if s.browser.Filter() != "" {
		lines = append(lines, fmt.Sprintf("Filter: %q (%d/%d presets)", s.browser.Filter(), total, s.browser.Total()))
	}
	if s.searchMode {
		lines = append(lines, fmt.Sprintf("SEARCH: %s_", s.browser.Filter()))
	} else if s.status != "" {
		lines = append(lines, s.status)
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 30+i*20)
	}

	controls := []string{
		"Navigation: <-/-> = Prev/Next  PgUp/PgDn = Jump 10  Home/End = First/Last  F = Search",
		"Actions:    Click/Space = Spawn  Drag = Pan  R = Clear  P = Pause  -/= = Time scale  G = Grid",
	}
	if utils.IsMobile() {
		controls = []string{"Tap = Spawn  Drag = Pan"}
	}
	y := s.height - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}
}

// SaveOnExit 保存查看器设置
func (s *ParticleViewerScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[ParticleViewer] Failed to save settings: %v", err)
		return false
	}
	return true
}
