// Command simcore 运行模拟核心的交互式演示
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--scene <name>     Scene to start: particles | collision (default particles)
//	--config <path>    Load simulation config from disk instead of the embedded copy
//	--preset <name>    Start the particle viewer with this preset selected
//	--seed <n>         Random seed (overrides the config; 0 keeps it)
//	--verbose          Enable verbose logging
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/decker502/simcore/pkg/app"
	"github.com/decker502/simcore/pkg/embedded"
	"github.com/decker502/simcore/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	sceneFlag   = flag.String("scene", scenes.SceneParticles, "Scene to start (particles, collision)")
	configFlag  = flag.String("config", "", "Simulation config file (default: embedded data/simulation.yaml)")
	presetFlag  = flag.String("preset", "", "Initial particle preset")
	seedFlag    = flag.Uint64("seed", 0, "Random seed, 0 uses the config value")
	widthFlag   = flag.Int("width", app.DefaultWidth, "Logical screen width")
	heightFlag  = flag.Int("height", app.DefaultHeight, "Logical screen height")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "simcore: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	embedded.Init(dataFS)

	// NewApp 会在非 verbose 模式下关闭日志，这里先加载资源以便看到加载错误
	cfg, err := app.LoadSimulationConfig(*configFlag)
	if err != nil {
		return err
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	lib, err := app.LoadPresetLibrary(cfg)
	if err != nil {
		return err
	}

	settings := app.OpenSettings("simcore")
	if *presetFlag != "" {
		settings.SetLastPreset(*presetFlag)
	}

	opts := scenes.ViewerOptions{
		Config:   cfg,
		Library:  lib,
		Settings: settings,
		Width:    *widthFlag,
		Height:   *heightFlag,
	}
	demoSeed := cfg.Seed
	if demoSeed == 0 {
		demoSeed = rand.Uint64()
	}
	gameApp, err := app.NewApp(app.Config{
		Verbose: *verboseFlag,
		Scene:   *sceneFlag,
		Width:   *widthFlag,
		Height:  *heightFlag,
	}, scenes.NewSceneFactory(opts, demoSeed))
	if err != nil {
		return err
	}

	w, h := gameApp.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Simulation Core Demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	log.Printf("[Main] Exited")
	return nil
}
