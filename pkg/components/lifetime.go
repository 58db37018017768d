package components

// LifetimeComponent 粒子已存在的时间（秒），单调递增
type LifetimeComponent struct {
	CurrentLifetime float64
}
