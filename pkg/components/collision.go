package components

import "github.com/decker502/simcore/pkg/ecs"

// GridCoord 空间哈希网格的单元坐标（已对齐到 gridSize 的整数倍）
type GridCoord struct {
	X, Y int
}

// CollidableComponent 标记实体参与空间网格分桶
type CollidableComponent struct{}

// HashGridCellComponent 缓存实体当前所在的网格单元
//
// 由 HashGridSystem 维护：首次遇到 Collidable 实体时添加，
// 之后仅在 InstanceComponent.Version 变化时重新计算。
type HashGridCellComponent struct {
	Cell GridCoord

	// SeenVersion 上次计算时的 InstanceComponent.Version
	SeenVersion uint64
	// Source 上次计算时的 InstanceComponent；组件被替换后需要重新计算
	Source *InstanceComponent
}

// 碰撞通道
//
// T 是游戏代码定义的零大小标签类型，每个标签构成一个独立的碰撞通道：
//
//	type PlayerBullet struct{}
//	ecs.AddComponent(em, bullet, &components.ColliderComponent[PlayerBullet]{})
//	ecs.AddComponent(em, enemy, &components.CollidesWithComponent[PlayerBullet]{})
//
// 不同 T 的组件在 EntityManager 中是不同的类型键，通道之间互不影响。

// ColliderComponent 实体在通道 T 中主动查询重叠
type ColliderComponent[T any] struct{}

// CollidesWithComponent 实体在通道 T 中作为被查询目标
type CollidesWithComponent[T any] struct{}

// CollidingComponent 本帧通道 T 的重叠结果
//
// 仅在存在重叠时存在；Entities 按发现顺序排列（邻居单元顺序，再按桶内插入顺序）。
type CollidingComponent[T any] struct {
	Entities []ecs.EntityID
}
