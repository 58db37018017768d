package entities

import (
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

// NewCollidableInstance 创建参与空间网格分桶的实例实体
//
// 实体本身不属于任何碰撞通道，需要再调用 AddCollider / AddCollidesWith。
// 网格单元由 HashGridSystem 在下一次更新时分配。
func NewCollidableInstance(em *ecs.EntityManager, x, y, width, height float64, shapeID uint32) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewInstance(x, y, width, height, shapeID))
	ecs.AddComponent(em, id, &components.CollidableComponent{})
	return id
}

// AddCollider 让实体在通道 T 中主动检测重叠
func AddCollider[T any](em *ecs.EntityManager, id ecs.EntityID) {
	ecs.AddComponent(em, id, &components.ColliderComponent[T]{})
}

// AddCollidesWith 让实体在通道 T 中可被检测
func AddCollidesWith[T any](em *ecs.EntityManager, id ecs.EntityID) {
	ecs.AddComponent(em, id, &components.CollidesWithComponent[T]{})
}

// RemoveFromChannel 将实体移出通道 T，已有的检测结果一并移除
func RemoveFromChannel[T any](em *ecs.EntityManager, id ecs.EntityID) {
	ecs.RemoveComponent[*components.ColliderComponent[T]](em, id)
	ecs.RemoveComponent[*components.CollidesWithComponent[T]](em, id)
	ecs.RemoveComponent[*components.CollidingComponent[T]](em, id)
}

// CollidingEntities 返回实体在通道 T 中本帧的重叠结果（无重叠时为 nil）
func CollidingEntities[T any](em *ecs.EntityManager, id ecs.EntityID) []ecs.EntityID {
	c, ok := ecs.GetComponent[*components.CollidingComponent[T]](em, id)
	if !ok {
		return nil
	}
	return c.Entities
}
