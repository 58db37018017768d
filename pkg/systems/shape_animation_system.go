package systems

import (
	"log"
	"math"

	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

// ShapeAnimationSystem 按帧时长轮换实体的 ShapeID
type ShapeAnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewShapeAnimationSystem 创建形状帧动画系统
func NewShapeAnimationSystem(em *ecs.EntityManager) *ShapeAnimationSystem {
	return &ShapeAnimationSystem{entityManager: em}
}

// Update 推进所有形状动画
func (s *ShapeAnimationSystem) Update(deltaTime float64) {
	ids := ecs.GetEntitiesWith2[*components.ShapeAnimationComponent, *components.InstanceComponent](s.entityManager)

	for _, id := range ids {
		anim, _ := ecs.GetComponent[*components.ShapeAnimationComponent](s.entityManager, id)
		inst, _ := ecs.GetComponent[*components.InstanceComponent](s.entityManager, id)

		// 已完成或没有帧，跳过
		if anim.IsFinished || len(anim.Frames) == 0 {
			continue
		}

		speed := anim.Speed
		if speed == 0 {
			speed = 1
		}
		anim.CurrentTime += deltaTime * speed

		total := anim.TotalDuration()
		if total <= 0 {
			anim.CurrentFrame = 0
			inst.ShapeID = anim.Frames[0].ShapeID
			continue
		}

		if anim.CurrentTime >= total {
			if anim.IsLooping {
				anim.CurrentTime = math.Mod(anim.CurrentTime, total)
			} else {
				// 非循环动画: 停在最后一帧并标记完成
				anim.CurrentTime = total
				anim.IsFinished = true
				log.Printf("[ShapeAnimationSystem] 动画播放完成 (实体ID: %d)，停在最后一帧", id)
			}
		}

		anim.CurrentFrame = anim.FrameAt(anim.CurrentTime)
		inst.ShapeID = anim.Frames[anim.CurrentFrame].ShapeID
	}
}
