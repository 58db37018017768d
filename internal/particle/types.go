// Package particle 定义粒子系统的配置数据结构、取值曲线以及配置解析
//
// 运行时状态（粒子数量、运行时间、爆发索引）不在这里，
// 而是作为组件挂在发射器实体上，由 systems.ParticleSystem 驱动。
package particle

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/simcore/pkg/types"
)

// 配置校验错误
var (
	ErrInvalidMaxParticles = errors.New("max particles must be positive")
	ErrInvalidDuration     = errors.New("system duration must be positive")
	ErrInvalidLifetime     = errors.New("particle lifetime must be positive")
	ErrInvalidMaxDistance  = errors.New("max distance must not be negative")
	ErrInvalidEmitterShape = errors.New("emitter shape must not be negative")
	ErrInvalidBurst        = errors.New("invalid burst")
	ErrEmptyGradient       = errors.New("gradient has no stops")
	ErrUnknownEase         = errors.New("unknown ease function")
)

func unknownEase(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownEase, name)
}

// SystemConfig 是一个发射器的完整配置，创建发射器后不再修改
//
// 时间相关的曲线（SpawnRatePerSecond）按系统运行百分比取值，
// 粒子相关的曲线（Acceleration、Scale、Color）按粒子生命百分比取值。
type SystemConfig struct {
	Name    string
	ShapeID uint32

	MaxParticles       int
	SpawnRatePerSecond ValueOverTime

	// EmitterShape 发射锥的张角（弧度），粒子方向在 EmitterAngle ± EmitterShape/2 内均匀分布
	EmitterShape float64
	// EmitterAngle 发射锥的中心方向（弧度）
	EmitterAngle float64

	SpawnRadius     JitteredValue
	InitialVelocity JitteredValue
	Acceleration    ValueOverTime
	Lifetime        JitteredValue
	Color           ColorOverTime
	Scale           ValueOverTime

	Looping               bool
	SystemDurationSeconds float64
	Bursts                []Burst

	// MaxDistance 粒子累计移动距离上限，nil 表示不限制
	MaxDistance *float64

	UseScaledTime   bool
	DespawnOnFinish bool
}

// DefaultSystemConfig 返回默认配置
//
// 100 个粒子上限，每秒 10 个，全方向发射，初速度 10，寿命 1 秒，白色，循环 1 秒。
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		MaxParticles:          100,
		SpawnRatePerSecond:    ConstantValue(10),
		EmitterShape:          2 * math.Pi,
		InitialVelocity:       Fixed(10),
		Lifetime:              Fixed(1),
		Color:                 ConstantColor(types.White),
		Scale:                 ConstantValue(1),
		Looping:               true,
		SystemDurationSeconds: 1,
	}
}

// Validate 检查配置是否满足运行时的前置条件
//
// 每帧计算会除以 SystemDurationSeconds 和粒子寿命，因此它们必须为正。
func (c *SystemConfig) Validate() error {
	if c.MaxParticles <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxParticles, c.MaxParticles)
	}
	if c.SystemDurationSeconds <= 0 || math.IsNaN(c.SystemDurationSeconds) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, c.SystemDurationSeconds)
	}
	if c.Lifetime.MinValue() <= 0 {
		return fmt.Errorf("%w: minimum %v", ErrInvalidLifetime, c.Lifetime.MinValue())
	}
	if c.MaxDistance != nil && *c.MaxDistance < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidMaxDistance, *c.MaxDistance)
	}
	if c.EmitterShape < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidEmitterShape, c.EmitterShape)
	}

	prev := math.Inf(-1)
	for i, b := range c.Bursts {
		if b.Count < 0 {
			return fmt.Errorf("%w: burst %d has negative count %d", ErrInvalidBurst, i, b.Count)
		}
		if b.Time < prev {
			return fmt.Errorf("%w: burst %d at %.3fs is before previous burst at %.3fs", ErrInvalidBurst, i, b.Time, prev)
		}
		prev = b.Time
	}

	if c.Color.UseGradient && c.Color.Gradient.Len() == 0 {
		return fmt.Errorf("color: %w", ErrEmptyGradient)
	}
	curves := []struct {
		name  string
		curve ValueOverTime
	}{
		{"spawn rate", c.SpawnRatePerSecond},
		{"acceleration", c.Acceleration},
		{"scale", c.Scale},
	}
	for _, cv := range curves {
		if err := validateCurve(cv.curve); err != nil {
			return fmt.Errorf("%s: %w", cv.name, err)
		}
	}
	return nil
}

func validateCurve(v ValueOverTime) error {
	switch v.Kind {
	case CurveGradient:
		if len(v.Points) == 0 {
			return ErrEmptyGradient
		}
	case CurveEased:
		if _, ok := EaseFunc(v.Eased.Ease); !ok {
			return unknownEase(v.Eased.Ease)
		}
	}
	return nil
}
