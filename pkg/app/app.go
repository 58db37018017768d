// Package app 提供查看器应用的核心包装器
//
// 该包将窗口循环从 main 包提取出来，使粒子查看器、碰撞演示和移动端可以共用。
// 场景由调用方通过 SceneFactory 提供，app 只负责驱动场景管理器。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/simcore/pkg/game"
	"github.com/decker502/simcore/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 默认逻辑屏幕尺寸
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Scene 启动时加载的场景名称
	Scene string
	// Width, Height 逻辑屏幕尺寸，0 使用默认值
	Width, Height int
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	verbose                  bool
	width, height            int
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建应用并加载初始场景
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config, factory game.SceneFactory) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(factory)
	if !sceneManager.LoadScene(cfg.Scene) {
		return nil, fmt.Errorf("failed to load scene %q", cfg.Scene)
	}
	log.Printf("[App] Starting scene: %s (%dx%d)", cfg.Scene, cfg.Width, cfg.Height)

	return &App{
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
		width:        cfg.Width,
		height:       cfg.Height,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// 窗口关闭前保存场景状态（需要 main 调用 ebiten.SetWindowClosingHandled(true)）
	if ebiten.IsWindowBeingClosed() {
		a.sceneManager.SaveOnExit()
		log.Printf("[App] Window closed")
		return ebiten.Termination
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// Size 返回逻辑屏幕尺寸
func (a *App) Size() (int, int) {
	return a.width, a.height
}

// GetSceneManager 返回场景管理器
// 用于在窗口关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// OpenSettings 打开持久化存储并加载查看器设置
// 存储不可用时退化为仅内存设置
func OpenSettings(appName string) *game.SettingsManager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage directory unavailable: %v", err)
		return game.NewSettingsManager(nil)
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: failed to open storage: %v (settings will not persist)", err)
		return game.NewSettingsManager(nil)
	}
	if path := utils.GetStoragePath(); path != "" {
		log.Printf("[App] Settings storage: %s", path)
	}
	return game.NewSettingsManager(manager)
}
