// validate_presets 校验磁盘上的模拟配置和粒子预设
//
// Usage:
//
//	go run ./cmd/validate_presets [dir]
//
// dir 为包含 data/ 的目录，默认当前目录。任一文件无效时以非零状态退出。
package main

import (
	"fmt"
	"os"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/app"
	"github.com/decker502/simcore/pkg/embedded"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	embedded.Init(os.DirFS(dir))

	cfg, err := app.LoadSimulationConfig("")
	if err != nil {
		fmt.Printf("❌ 模拟配置无效: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 模拟配置: gridSize=%d batchSize=%d timeScale=%.2f\n", cfg.GridSize, cfg.BatchSize, cfg.TimeScale)

	patterns := cfg.Presets
	if len(patterns) == 0 {
		patterns = []string{app.DefaultPresetPattern}
	}

	failed := 0
	total := 0
	for _, pattern := range patterns {
		paths, err := embedded.Glob(pattern)
		if err != nil || len(paths) == 0 {
			fmt.Printf("❌ 没有匹配 %s 的文件\n", pattern)
			failed++
			continue
		}
		for _, path := range paths {
			configs, err := particle.LoadPresets(path)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", path, err)
				failed++
				continue
			}
			for _, c := range configs {
				fmt.Printf("✅ %s: %s (max %d, %.1fs, looping=%v, bursts=%d)\n",
					path, c.Name, c.MaxParticles, c.SystemDurationSeconds, c.Looping, len(c.Bursts))
			}
			total += len(configs)
		}
	}

	// 名称冲突只有合并成库时才能发现
	if failed == 0 {
		if _, err := app.LoadPresetLibrary(cfg); err != nil {
			fmt.Printf("❌ %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("❌ %d 个问题\n", failed)
		os.Exit(1)
	}
	fmt.Printf("✅ 共 %d 个发射器预设\n", total)
}
