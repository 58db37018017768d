package components

import "github.com/decker502/simcore/pkg/ecs"

// ParticleComponent 单个粒子的不可变属性，在发射时确定
//
// 粒子的位置、缩放和颜色存放在 InstanceComponent 中，供渲染和碰撞使用。
type ParticleComponent struct {
	Parent      ecs.EntityID // 所属发射器
	MaxLifetime float64      // 寿命（秒），发射时采样一次

	// MaxDistance 累计移动距离上限，HasMaxDistance 为 false 时不限制
	MaxDistance    float64
	HasMaxDistance bool
}

// VelocityComponent 沿 DirectionComponent 方向的标量速度
type VelocityComponent struct {
	Speed float64
}

// DirectionComponent 单位方向向量
type DirectionComponent struct {
	X, Y float64
}

// DistanceTraveledComponent 累计移动距离
type DistanceTraveledComponent struct {
	Distance float64
}
