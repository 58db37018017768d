package systems

import (
	"log"

	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/ecs"
)

// HashGridSystem 维护 Collidable 实体所在的空间网格单元
//
// 每帧两步:
//  1. 更新：已有 HashGridCellComponent 且 InstanceComponent.Version 变化的实体重新计算单元（并行）
//  2. 插入：尚无 HashGridCellComponent 的 Collidable 实体添加单元
//
// 必须在所有 CollisionSystem 之前执行。
type HashGridSystem struct {
	entityManager *ecs.EntityManager
	gridSize      int
	batchSize     int

	// 复用的遍历缓冲
	instances []*components.InstanceComponent
	cells     []*components.HashGridCellComponent
}

// NewHashGridSystem 创建空间网格系统
// gridSize 或 batchSize 非正时使用默认值
func NewHashGridSystem(em *ecs.EntityManager, gridSize, batchSize int) *HashGridSystem {
	if gridSize <= 0 {
		log.Printf("[HashGridSystem] 非法网格大小 %d，使用默认值 %d", gridSize, config.DefaultGridSize)
		gridSize = config.DefaultGridSize
	}
	if batchSize <= 0 {
		batchSize = ecs.DefaultBatchSize
	}
	return &HashGridSystem{
		entityManager: em,
		gridSize:      gridSize,
		batchSize:     batchSize,
	}
}

// GridSize 返回网格边长
func (s *HashGridSystem) GridSize() int {
	return s.gridSize
}

// Update 更新所有 Collidable 实体的网格单元
func (s *HashGridSystem) Update(deltaTime float64) {
	s.updateCells()
	s.insertCells()
}

func (s *HashGridSystem) updateCells() {
	ids := ecs.GetEntitiesWith3[
		*components.CollidableComponent,
		*components.InstanceComponent,
		*components.HashGridCellComponent,
	](s.entityManager)

	s.instances = s.instances[:0]
	s.cells = s.cells[:0]
	for _, id := range ids {
		inst, _ := ecs.GetComponent[*components.InstanceComponent](s.entityManager, id)
		cell, _ := ecs.GetComponent[*components.HashGridCellComponent](s.entityManager, id)
		s.instances = append(s.instances, inst)
		s.cells = append(s.cells, cell)
	}

	gridSize := s.gridSize
	instances, cells := s.instances, s.cells
	ecs.ParallelFor(len(instances), s.batchSize, func(start, end int) {
		for i := start; i < end; i++ {
			inst, cell := instances[i], cells[i]
			if cell.Source == inst && cell.SeenVersion == inst.Version {
				continue
			}
			cell.Cell = CellFor(inst.X, inst.Y, gridSize)
			cell.SeenVersion = inst.Version
			cell.Source = inst
		}
	})
}

func (s *HashGridSystem) insertCells() {
	missing := ecs.Without[*components.HashGridCellComponent](s.entityManager,
		ecs.GetEntitiesWith2[*components.CollidableComponent, *components.InstanceComponent](s.entityManager))

	for _, id := range missing {
		inst, _ := ecs.GetComponent[*components.InstanceComponent](s.entityManager, id)
		ecs.AddComponent(s.entityManager, id, &components.HashGridCellComponent{
			Cell:        CellFor(inst.X, inst.Y, s.gridSize),
			SeenVersion: inst.Version,
			Source:      inst,
		})
	}
}
