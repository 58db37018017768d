package entities

import (
	"fmt"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

// NewParticleEmitter 创建一个正在播放的粒子发射器实体
// 参数:
//   - em: EntityManager 实例
//   - cfg: 发射器配置（创建后不再修改，可在多个发射器间共享）
//   - x, y: 发射器世界坐标
//
// 返回: 发射器实体ID；配置非法时返回错误且不创建实体
func NewParticleEmitter(em *ecs.EntityManager, cfg *particle.SystemConfig, x, y float64) (ecs.EntityID, error) {
	if cfg == nil {
		return 0, fmt.Errorf("particle emitter config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("invalid particle emitter %q: %w", cfg.Name, err)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.EmitterComponent{Config: cfg})
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.ParticleCountComponent{})
	ecs.AddComponent(em, id, &components.RunningStateComponent{})
	ecs.AddComponent(em, id, &components.BurstIndexComponent{})
	ecs.AddComponent(em, id, &components.PlayingComponent{})
	return id, nil
}

// CreateParticleEffect 按预设名称在指定位置创建发射器
//
// 示例:
//
//	emitterID, err := CreateParticleEffect(em, lib, "fountain", 400, 300)
//	if err != nil {
//	    log.Printf("Failed to create particle effect: %v", err)
//	}
func CreateParticleEffect(em *ecs.EntityManager, lib *particle.Library, name string, x, y float64) (ecs.EntityID, error) {
	cfg, err := lib.Get(name)
	if err != nil {
		return 0, fmt.Errorf("failed to create particle effect: %w", err)
	}
	return NewParticleEmitter(em, cfg, x, y)
}

// RestartEmitter 重置发射器的运行状态并恢复播放，已有粒子保留
func RestartEmitter(em *ecs.EntityManager, id ecs.EntityID) bool {
	if !ecs.HasComponent[*components.EmitterComponent](em, id) {
		return false
	}
	ecs.AddComponent(em, id, &components.RunningStateComponent{})
	ecs.AddComponent(em, id, &components.BurstIndexComponent{})
	ecs.AddComponent(em, id, &components.PlayingComponent{})
	return true
}

// StopEmitter 暂停发射器，已有粒子继续老化直到结束
func StopEmitter(em *ecs.EntityManager, id ecs.EntityID) {
	ecs.RemoveComponent[*components.PlayingComponent](em, id)
}
