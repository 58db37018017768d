package components

import (
	"github.com/decker502/simcore/internal/particle"
)

// EmitterComponent 粒子发射器配置
//
// Config 在创建后不再修改，多个发射器可以共享同一份配置。
type EmitterComponent struct {
	Config *particle.SystemConfig
}

// ParticleCountComponent 发射器当前存活的粒子数量，范围 [0, MaxParticles]
type ParticleCountComponent struct {
	Count int
}

// RunningStateComponent 发射器运行状态
type RunningStateComponent struct {
	RunningTime       float64 // 当前循环内已运行时间（秒）
	CurrentSecond     float64 // 当前所在的整数秒，用于按秒限流
	SpawnedThisSecond int     // 当前秒内按速率发射的数量（不含爆发）
}

// BurstIndexComponent 下一个尚未触发的爆发索引，循环时重置为 0
type BurstIndexComponent struct {
	Index int
}

// PlayingComponent 标记发射器正在播放；移除后停止发射，已有粒子继续老化
type PlayingComponent struct{}
