package systems

import (
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

// TweenSystem 推进 TweenComponent 中的补间动画并写回 InstanceComponent
//
// 位置或尺寸被修改时调用 MarkMoved，使碰撞网格重新分配单元。
// 实体的全部补间完成后移除 TweenComponent。
type TweenSystem struct {
	entityManager *ecs.EntityManager
}

// NewTweenSystem 创建补间系统
func NewTweenSystem(em *ecs.EntityManager) *TweenSystem {
	return &TweenSystem{entityManager: em}
}

// Update 推进所有补间 dt 秒
func (s *TweenSystem) Update(dt float64) {
	ids := ecs.GetEntitiesWith2[*components.TweenComponent, *components.InstanceComponent](s.entityManager)

	var out [4]float32
	for _, id := range ids {
		tc, _ := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
		inst, _ := ecs.GetComponent[*components.InstanceComponent](s.entityManager, id)

		allDone := true
		moved := false
		for i := range tc.Tweens {
			tw := &tc.Tweens[i]
			if !tw.Update(float32(dt), &out) {
				allDone = false
			}
			switch tw.Target {
			case components.TweenPosition:
				inst.X, inst.Y = float64(out[0]), float64(out[1])
				moved = true
			case components.TweenRotation:
				inst.Rotation = float64(out[0])
			case components.TweenScale:
				inst.ScaleX, inst.ScaleY = max(0, float64(out[0])), max(0, float64(out[1]))
				moved = true
			case components.TweenColor:
				inst.Color.R, inst.Color.G, inst.Color.B, inst.Color.A = out[0], out[1], out[2], out[3]
			}
		}
		if moved {
			inst.MarkMoved()
		}

		if allDone {
			ecs.RemoveComponent[*components.TweenComponent](s.entityManager, id)
		}
	}
}
