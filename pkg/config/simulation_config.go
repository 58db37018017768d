package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 配置校验错误
var (
	ErrInvalidGridSize  = errors.New("grid size must be positive")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrInvalidTimeScale = errors.New("time scale must not be negative")
)

// 默认值
const (
	DefaultGridSize  = 100
	DefaultBatchSize = 512
	DefaultTimeScale = 1.0
)

// SimulationConfig 模拟核心的构造期配置
//
// 配置文件位置: data/simulation.yaml
type SimulationConfig struct {
	// GridSize 空间哈希网格边长（世界单位）
	// 应不小于场景中最大实体的宽高，否则可能漏检碰撞
	GridSize int `yaml:"gridSize"`

	// BatchSize 并行遍历时每个任务处理的实体数量
	BatchSize int `yaml:"batchSize"`

	// TimeScale 全局时间缩放，作用于 UseScaledTime 的粒子发射器
	TimeScale float64 `yaml:"timeScale"`

	// Seed 粒子随机数种子，0 表示使用随机种子
	Seed uint64 `yaml:"seed"`

	// Presets 启动时加载的粒子预设文件
	Presets []string `yaml:"presets"`
}

// DefaultSimulationConfig 返回默认配置
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		GridSize:  DefaultGridSize,
		BatchSize: DefaultBatchSize,
		TimeScale: DefaultTimeScale,
	}
}

// ParseSimulationConfig 解析 YAML 内容，未出现的字段保留默认值
func ParseSimulationConfig(data []byte) (*SimulationConfig, error) {
	config := DefaultSimulationConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	return config, nil
}

// LoadSimulationConfig 加载模拟配置
//
// 参数:
//   - path: 配置文件路径（如 "data/simulation.yaml"）
//
// 返回:
//   - *SimulationConfig: 加载成功后的配置结构
//   - error: 读取、解析或校验失败时返回错误
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}
	return ParseSimulationConfig(data)
}

// Validate 验证配置有效性
func (c *SimulationConfig) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGridSize, c.GridSize)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.BatchSize)
	}
	if c.TimeScale < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimeScale, c.TimeScale)
	}
	return nil
}
