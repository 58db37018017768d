package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/simcore/pkg/ecs"
)

// Stage 系统执行阶段，按数值顺序依次执行
type Stage int

const (
	StagePreUpdate Stage = iota
	StageUpdate
	StagePostUpdate
	stageCount
)

// String 返回阶段名称
func (s Stage) String() string {
	switch s {
	case StagePreUpdate:
		return "PreUpdate"
	case StageUpdate:
		return "Update"
	case StagePostUpdate:
		return "PostUpdate"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// 调度错误
var (
	ErrDuplicateLabel = errors.New("duplicate system label")
	ErrUnknownLabel   = errors.New("unknown system label")
	ErrCycle          = errors.New("system ordering cycle")
	ErrInvalidStage   = errors.New("invalid stage")
)

// SystemFunc 每帧执行一次的系统函数
type SystemFunc func(deltaTime float64)

type systemEntry struct {
	label string
	stage Stage
	run   SystemFunc
	after []string
}

// Scheduler 按阶段和依赖顺序执行系统
//
// 同一阶段内的系统默认按注册顺序执行；After 约束要求指定标签的系统先执行。
// 约束可以引用更早阶段的系统（自然满足），引用更晚阶段或不存在的标签是错误。
// 每帧结束时统一清理被标记删除的实体。
type Scheduler struct {
	entityManager *ecs.EntityManager
	entries       []*systemEntry
	labels        map[string]*systemEntry
	ordered       [stageCount][]*systemEntry
	dirty         bool
}

// NewScheduler 创建调度器
func NewScheduler(em *ecs.EntityManager) *Scheduler {
	return &Scheduler{
		entityManager: em,
		labels:        make(map[string]*systemEntry),
	}
}

// Add 注册系统
//
// 参数:
//   - stage: 执行阶段
//   - label: 唯一标签
//   - run: 系统函数
//   - after: 必须先于本系统执行的系统标签
func (s *Scheduler) Add(stage Stage, label string, run SystemFunc, after ...string) error {
	if stage < 0 || stage >= stageCount {
		return fmt.Errorf("%w: %d", ErrInvalidStage, int(stage))
	}
	if _, exists := s.labels[label]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	e := &systemEntry{label: label, stage: stage, run: run, after: after}
	s.entries = append(s.entries, e)
	s.labels[label] = e
	s.dirty = true
	return nil
}

// Build 计算执行顺序
// 注册完成后调用一次即可，Update 在注册变化后会自动重建
func (s *Scheduler) Build() error {
	var ordered [stageCount][]*systemEntry

	for stage := Stage(0); stage < stageCount; stage++ {
		var pending []*systemEntry
		for _, e := range s.entries {
			if e.stage != stage {
				continue
			}
			for _, dep := range e.after {
				target, ok := s.labels[dep]
				if !ok {
					return fmt.Errorf("%w: %q (required by %q)", ErrUnknownLabel, dep, e.label)
				}
				if target.stage > stage {
					return fmt.Errorf("%w: %q runs in %s, after %q in %s",
						ErrCycle, dep, target.stage, e.label, stage)
				}
			}
			pending = append(pending, e)
		}

		// 稳定拓扑排序：每轮选出注册顺序最靠前且依赖已满足的系统
		done := make(map[string]bool, len(pending))
		for len(pending) > 0 {
			picked := -1
			for i, e := range pending {
				if s.depsSatisfied(e, done) {
					picked = i
					break
				}
			}
			if picked < 0 {
				return fmt.Errorf("%w in %s involving %q", ErrCycle, stage, pending[0].label)
			}
			e := pending[picked]
			ordered[stage] = append(ordered[stage], e)
			done[e.label] = true
			pending = append(pending[:picked], pending[picked+1:]...)
		}
	}

	s.ordered = ordered
	s.dirty = false
	return nil
}

func (s *Scheduler) depsSatisfied(e *systemEntry, done map[string]bool) bool {
	for _, dep := range e.after {
		if s.labels[dep].stage < e.stage {
			continue
		}
		if !done[dep] {
			return false
		}
	}
	return true
}

// Order 返回阶段内的执行顺序（标签列表）
func (s *Scheduler) Order(stage Stage) []string {
	if stage < 0 || stage >= stageCount {
		return nil
	}
	labels := make([]string, 0, len(s.ordered[stage]))
	for _, e := range s.ordered[stage] {
		labels = append(labels, e.label)
	}
	return labels
}

// Update 执行一帧：依次运行所有阶段的系统
//
// 每个阶段结束时清理标记删除的实体，后续阶段不会再看到它们
// （例如 Update 阶段回收的粒子不会进入 PostUpdate 的碰撞检测）。
func (s *Scheduler) Update(deltaTime float64) {
	if s.dirty {
		if err := s.Build(); err != nil {
			log.Printf("[Scheduler] 无法构建执行顺序: %v", err)
			return
		}
	}

	for stage := Stage(0); stage < stageCount; stage++ {
		for _, e := range s.ordered[stage] {
			e.run(deltaTime)
		}
		if s.entityManager != nil {
			s.entityManager.RemoveMarkedEntities()
		}
	}
}
