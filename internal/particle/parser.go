package particle

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/simcore/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// PresetFile 是 data/particles/*.yaml 的根结构，一个文件可以包含多个发射器
type PresetFile struct {
	Emitters []EmitterConfig `yaml:"emitters"`
}

// EmitterConfig 是发射器在 YAML 中的表示
//
// 取值字段使用字符串以支持紧凑写法（见 ParseJittered、ParseCurve、ParseColorCurve）:
//   - 抖动值: "25"、"25 [-10 10]"、"[8 12]"
//   - 曲线: "5"、"0,1 1,0"、"sin 150 5"、"ease OutQuad 1 0"
//   - 颜色: "white"、"#ff8800"、"white,0 red,0.5 #0000ff00,1"
//
// 空字段使用 DefaultSystemConfig 中的默认值。角度以度为单位。
type EmitterConfig struct {
	Name         string `yaml:"name"`
	Shape        uint32 `yaml:"shape"`
	MaxParticles int    `yaml:"maxParticles,omitempty"`

	SpawnRate       string `yaml:"spawnRate,omitempty"`
	SpawnRadius     string `yaml:"spawnRadius,omitempty"`
	InitialVelocity string `yaml:"initialVelocity,omitempty"`
	Acceleration    string `yaml:"acceleration,omitempty"`
	Lifetime        string `yaml:"lifetime,omitempty"`
	Color           string `yaml:"color,omitempty"`
	Scale           string `yaml:"scale,omitempty"`

	EmitterShapeDegrees *float64 `yaml:"emitterShape,omitempty"`
	EmitterAngleDegrees float64  `yaml:"emitterAngle,omitempty"`

	Looping         *bool    `yaml:"looping,omitempty"`
	Duration        float64  `yaml:"duration,omitempty"`
	Bursts          []Burst  `yaml:"bursts,omitempty"`
	MaxDistance     *float64 `yaml:"maxDistance,omitempty"`
	UseScaledTime   bool     `yaml:"useScaledTime,omitempty"`
	DespawnOnFinish bool     `yaml:"despawnOnFinish,omitempty"`
}

// Build 将 YAML 表示转换为经过校验的 SystemConfig
func (e *EmitterConfig) Build() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	cfg.Name = e.Name
	cfg.ShapeID = e.Shape

	if e.MaxParticles != 0 {
		cfg.MaxParticles = e.MaxParticles
	}
	if e.Duration != 0 {
		cfg.SystemDurationSeconds = e.Duration
	}
	if e.Looping != nil {
		cfg.Looping = *e.Looping
	}
	if e.EmitterShapeDegrees != nil {
		cfg.EmitterShape = *e.EmitterShapeDegrees * math.Pi / 180
	}
	cfg.EmitterAngle = e.EmitterAngleDegrees * math.Pi / 180
	cfg.Bursts = append([]Burst(nil), e.Bursts...)
	if e.MaxDistance != nil {
		d := *e.MaxDistance
		cfg.MaxDistance = &d
	}
	cfg.UseScaledTime = e.UseScaledTime
	cfg.DespawnOnFinish = e.DespawnOnFinish

	jittered := []struct {
		field string
		src   string
		dst   *JitteredValue
	}{
		{"spawnRadius", e.SpawnRadius, &cfg.SpawnRadius},
		{"initialVelocity", e.InitialVelocity, &cfg.InitialVelocity},
		{"lifetime", e.Lifetime, &cfg.Lifetime},
	}
	for _, j := range jittered {
		v, err := ParseJittered(j.src)
		if errors.Is(err, ErrEmptyValue) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("emitter %q %s: %w", e.Name, j.field, err)
		}
		*j.dst = v
	}

	curves := []struct {
		field string
		src   string
		dst   *ValueOverTime
	}{
		{"spawnRate", e.SpawnRate, &cfg.SpawnRatePerSecond},
		{"acceleration", e.Acceleration, &cfg.Acceleration},
		{"scale", e.Scale, &cfg.Scale},
	}
	for _, c := range curves {
		v, err := ParseCurve(c.src)
		if errors.Is(err, ErrEmptyValue) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("emitter %q %s: %w", e.Name, c.field, err)
		}
		*c.dst = v
	}

	if color, err := ParseColorCurve(e.Color); err == nil {
		cfg.Color = color
	} else if !errors.Is(err, ErrEmptyValue) {
		return nil, fmt.Errorf("emitter %q color: %w", e.Name, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("emitter %q: %w", e.Name, err)
	}
	return &cfg, nil
}

// ParsePresets 解析 YAML 预设内容
func ParsePresets(data []byte) ([]*SystemConfig, error) {
	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse particle presets: %w", err)
	}
	if len(file.Emitters) == 0 {
		return nil, fmt.Errorf("particle presets contain no emitters")
	}

	configs := make([]*SystemConfig, 0, len(file.Emitters))
	for i := range file.Emitters {
		cfg, err := file.Emitters[i].Build()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// LoadPresets 从嵌入资源读取并解析粒子预设文件
//
// 示例:
//
//	configs, err := particle.LoadPresets("data/particles/fountain.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadPresets(path string) ([]*SystemConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read particle presets %s: %w", path, err)
	}
	configs, err := ParsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return configs, nil
}
