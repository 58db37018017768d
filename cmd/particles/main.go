// Package main provides a particle preset viewer for testing and tuning
// emitter presets straight from the data directory on disk.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--data <dir>          Directory containing data/particles (default ".")
//	--filter <keyword>    Initial filter by name (e.g., --filter=spark)
//	--preset <name>       Start with specific preset (e.g., --preset=fountain)
//	--auto-play           Automatically cycle through presets every 3 seconds
//	--verbose             Enable verbose logging
//
// Controls are listed at the bottom of the viewer window.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/simcore/pkg/app"
	"github.com/decker502/simcore/pkg/embedded"
	"github.com/decker502/simcore/pkg/game"
	"github.com/decker502/simcore/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	autoPlayInterval = 3.0
)

var (
	dataFlag     = flag.String("data", ".", "Directory containing data/particles")
	filterFlag   = flag.String("filter", "", "Initial filter by name keyword")
	presetFlag   = flag.String("preset", "", "Start with specific preset name")
	autoPlayFlag = flag.Bool("auto-play", false, "Auto cycle through presets every 3 seconds")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	log.Println("=== Particle Preset Viewer ===")
	log.Printf("Data dir: %q  Filter: %q  Preset: %q  Auto-play: %v", *dataFlag, *filterFlag, *presetFlag, *autoPlayFlag)

	// 直接读取磁盘上的预设，修改 YAML 后重启即可看到效果
	embedded.Init(os.DirFS(*dataFlag))

	cfg, err := app.LoadSimulationConfig("")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	lib, err := app.LoadPresetLibrary(cfg)
	if err != nil {
		log.Fatal("Failed to load presets: ", err)
	}

	// 查看器工具不持久化设置
	settings := game.NewSettingsManager(nil)
	settings.SetLastPreset(*presetFlag)

	opts := scenes.ViewerOptions{
		Config:   cfg,
		Library:  lib,
		Settings: settings,
		Width:    screenWidth,
		Height:   screenHeight,
		Filter:   *filterFlag,
	}
	if *autoPlayFlag {
		opts.AutoPlay = autoPlayInterval
	}

	viewer, err := app.NewApp(app.Config{
		Verbose: *verboseFlag,
		Scene:   scenes.SceneParticles,
		Width:   screenWidth,
		Height:  screenHeight,
	}, scenes.NewSceneFactory(opts, cfg.Seed))
	if err != nil {
		log.Fatal("Failed to initialize viewer: ", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Particle Preset Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
