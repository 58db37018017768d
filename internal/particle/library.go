package particle

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/decker502/simcore/pkg/embedded"
)

// 预设库错误
var (
	ErrDuplicatePreset = errors.New("duplicate particle preset")
	ErrUnnamedPreset   = errors.New("particle preset has no name")
	ErrPresetNotFound  = errors.New("particle preset not found")
)

// Library 按名称索引的粒子预设集合
type Library struct {
	configs map[string]*SystemConfig
}

// NewLibrary 创建空的预设库
func NewLibrary() *Library {
	return &Library{configs: make(map[string]*SystemConfig)}
}

// Add 注册一个预设，名称必须唯一且非空
func (l *Library) Add(cfg *SystemConfig) error {
	if cfg.Name == "" {
		return ErrUnnamedPreset
	}
	if _, exists := l.configs[cfg.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePreset, cfg.Name)
	}
	l.configs[cfg.Name] = cfg
	return nil
}

// Get 按名称查找预设
func (l *Library) Get(name string) (*SystemConfig, error) {
	cfg, ok := l.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return cfg, nil
}

// Names 返回按字母排序的预设名称
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.configs))
	for name := range l.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回预设数量
func (l *Library) Len() int {
	return len(l.configs)
}

// LoadLibrary 从嵌入资源加载预设，参数可以是文件路径或通配符
//
//	lib, err := particle.LoadLibrary("data/particles/*.yaml")
func LoadLibrary(patterns ...string) (*Library, error) {
	lib := NewLibrary()
	for _, pattern := range patterns {
		paths, err := embedded.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to match particle presets %s: %w", pattern, err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no particle presets match %s", pattern)
		}
		for _, path := range paths {
			configs, err := LoadPresets(path)
			if err != nil {
				return nil, err
			}
			for _, cfg := range configs {
				if err := lib.Add(cfg); err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
			}
			log.Printf("[Particle] 加载预设文件 %s: %d 个发射器", path, len(configs))
		}
	}
	return lib, nil
}
