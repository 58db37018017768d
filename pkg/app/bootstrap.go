package app

import (
	"fmt"
	"log"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/embedded"
)

// 嵌入资源中的默认路径
const (
	DefaultConfigPath    = "data/simulation.yaml"
	DefaultPresetPattern = "data/particles/*.yaml"
)

// LoadSimulationConfig 加载模拟配置
//
// path 非空时从磁盘读取；否则读取嵌入的 data/simulation.yaml，
// 不存在时使用默认配置。
func LoadSimulationConfig(path string) (*config.SimulationConfig, error) {
	if path != "" {
		cfg, err := config.LoadSimulationConfig(path)
		if err != nil {
			return nil, err
		}
		log.Printf("[Config] 加载模拟配置: %s", path)
		return cfg, nil
	}

	if !embedded.Exists(DefaultConfigPath) {
		log.Printf("[Config] %s 不存在，使用默认配置", DefaultConfigPath)
		return config.DefaultSimulationConfig(), nil
	}
	data, err := embedded.ReadFile(DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", DefaultConfigPath, err)
	}
	cfg, err := config.ParseSimulationConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DefaultConfigPath, err)
	}
	log.Printf("[Config] 加载模拟配置: %s", DefaultConfigPath)
	return cfg, nil
}

// LoadPresetLibrary 加载配置中列出的粒子预设，未列出时加载 data/particles 下的全部文件
func LoadPresetLibrary(cfg *config.SimulationConfig) (*particle.Library, error) {
	patterns := cfg.Presets
	if len(patterns) == 0 {
		patterns = []string{DefaultPresetPattern}
	}
	lib, err := particle.LoadLibrary(patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load particle presets: %w", err)
	}
	log.Printf("[Config] 共加载 %d 个粒子预设", lib.Len())
	return lib, nil
}
