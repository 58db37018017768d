package systems

import (
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

// collisionCandidate 桶内的一个被检测目标及其本帧快照
type collisionCandidate struct {
	id       ecs.EntityID
	instance components.InstanceComponent
}

// colliderJob 一个主动检测方的本帧数据
type colliderJob struct {
	id       ecs.EntityID
	instance components.InstanceComponent
	cell     components.GridCoord
	result   []ecs.EntityID
}

// CollisionSystem 检测通道 T 中的重叠
//
// 每个标签类型注册一个实例。流程:
//  1. 将所有 CollidesWithComponent[T] 实体按网格单元分桶（顺序执行）
//  2. 对每个 ColliderComponent[T] 实体查询自身及 8 个相邻单元，保留包围盒重叠的目标（并行）
//  3. 有结果时添加/替换 CollidingComponent[T]，否则移除
//
// 结果每帧重新计算，不保留历史。实体不会与自身碰撞。
// 必须在 HashGridSystem 之后执行。
type CollisionSystem[T any] struct {
	entityManager *ecs.EntityManager
	gridSize      int
	batchSize     int

	buckets map[components.GridCoord][]collisionCandidate
	jobs    []colliderJob
}

// NewCollisionSystem 创建通道 T 的碰撞系统
// gridSize 必须与 HashGridSystem 使用的值一致
func NewCollisionSystem[T any](em *ecs.EntityManager, gridSize, batchSize int) *CollisionSystem[T] {
	if batchSize <= 0 {
		batchSize = ecs.DefaultBatchSize
	}
	return &CollisionSystem[T]{
		entityManager: em,
		gridSize:      gridSize,
		batchSize:     batchSize,
		buckets:       make(map[components.GridCoord][]collisionCandidate),
	}
}

// Update 计算本帧通道 T 的所有重叠
func (s *CollisionSystem[T]) Update(deltaTime float64) {
	s.buildBuckets()
	s.gatherColliders()

	buckets, gridSize, jobs := s.buckets, s.gridSize, s.jobs
	ecs.ParallelFor(len(jobs), s.batchSize, func(start, end int) {
		for i := start; i < end; i++ {
			job := &jobs[i]
			for _, cell := range GridNeighbors(job.cell, gridSize) {
				for j := range buckets[cell] {
					cand := &buckets[cell][j]
					if cand.id == job.id {
						continue
					}
					if Overlapping(&job.instance, &cand.instance) {
						job.result = append(job.result, cand.id)
					}
				}
			}
		}
	})

	s.applyResults()
}

func (s *CollisionSystem[T]) buildBuckets() {
	clear(s.buckets)

	targets := ecs.GetEntitiesWith3[
		*components.CollidesWithComponent[T],
		*components.InstanceComponent,
		*components.HashGridCellComponent,
	](s.entityManager)

	for _, id := range targets {
		inst, _ := ecs.GetComponent[*components.InstanceComponent](s.entityManager, id)
		cell, _ := ecs.GetComponent[*components.HashGridCellComponent](s.entityManager, id)
		s.buckets[cell.Cell] = append(s.buckets[cell.Cell], collisionCandidate{id: id, instance: *inst})
	}
}

func (s *CollisionSystem[T]) gatherColliders() {
	colliders := ecs.GetEntitiesWith3[
		*components.ColliderComponent[T],
		*components.InstanceComponent,
		*components.HashGridCellComponent,
	](s.entityManager)

	s.jobs = s.jobs[:0]
	for _, id := range colliders {
		inst, _ := ecs.GetComponent[*components.InstanceComponent](s.entityManager, id)
		cell, _ := ecs.GetComponent[*components.HashGridCellComponent](s.entityManager, id)
		s.jobs = append(s.jobs, colliderJob{id: id, instance: *inst, cell: cell.Cell})
	}
}

func (s *CollisionSystem[T]) applyResults() {
	for i := range s.jobs {
		job := &s.jobs[i]
		if len(job.result) == 0 {
			ecs.RemoveComponent[*components.CollidingComponent[T]](s.entityManager, job.id)
			continue
		}
		if colliding, ok := ecs.GetComponent[*components.CollidingComponent[T]](s.entityManager, job.id); ok {
			colliding.Entities = job.result
		} else {
			ecs.AddComponent(s.entityManager, job.id, &components.CollidingComponent[T]{Entities: job.result})
		}
		job.result = nil
	}

	// 不再参与检测的实体（移除了 Collider 或 Instance）不保留过期结果
	for _, id := range ecs.GetEntitiesWith1[*components.CollidingComponent[T]](s.entityManager) {
		if !ecs.HasComponent[*components.ColliderComponent[T]](s.entityManager, id) ||
			!ecs.HasComponent[*components.InstanceComponent](s.entityManager, id) ||
			!ecs.HasComponent[*components.HashGridCellComponent](s.entityManager, id) {
			ecs.RemoveComponent[*components.CollidingComponent[T]](s.entityManager, id)
		}
	}
}
