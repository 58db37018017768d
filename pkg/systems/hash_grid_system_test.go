package systems

import (
	"testing"

	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
)

func newCollidable(em *ecs.EntityManager, x, y, size float64) (ecs.EntityID, *components.InstanceComponent) {
	id := em.CreateEntity()
	inst := components.NewInstance(x, y, size, size, 0)
	ecs.AddComponent(em, id, inst)
	ecs.AddComponent(em, id, &components.CollidableComponent{})
	return id, inst
}

func cellOf(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) components.GridCoord {
	t.Helper()
	cell, ok := ecs.GetComponent[*components.HashGridCellComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no HashGridCellComponent", id)
	}
	return cell.Cell
}

// TestHashGridInsert 首帧即分配网格单元
func TestHashGridInsert(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewHashGridSystem(em, 100, 0)

	a, _ := newCollidable(em, 250, 40, 10)
	b, _ := newCollidable(em, -249.9, -51, 10)

	// 非 Collidable 实体不分配
	plain := em.CreateEntity()
	ecs.AddComponent(em, plain, components.NewInstance(0, 0, 1, 1, 0))

	s.Update(0.016)

	if got := cellOf(t, em, a); got != (components.GridCoord{X: 300, Y: 0}) {
		t.Errorf("cell(a) = %v, want {300 0}", got)
	}
	if got := cellOf(t, em, b); got != (components.GridCoord{X: -200, Y: -100}) {
		t.Errorf("cell(b) = %v, want {-200 -100}", got)
	}
	if ecs.HasComponent[*components.HashGridCellComponent](em, plain) {
		t.Error("non-collidable entity should not get a cell")
	}
}

// TestHashGridVersionGating 只有 MarkMoved 之后才重新计算单元
func TestHashGridVersionGating(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewHashGridSystem(em, 100, 0)
	id, inst := newCollidable(em, 0, 0, 10)
	s.Update(0.016)

	// 直接修改坐标但未标记：单元保持不变
	inst.X = 500
	s.Update(0.016)
	if got := cellOf(t, em, id); got != (components.GridCoord{}) {
		t.Errorf("cell changed without MarkMoved: %v", got)
	}

	inst.MarkMoved()
	s.Update(0.016)
	if got := cellOf(t, em, id); got != (components.GridCoord{X: 500, Y: 0}) {
		t.Errorf("cell = %v, want {500 0}", got)
	}

	inst.MoveTo(-120, 380)
	s.Update(0.016)
	if got := cellOf(t, em, id); got != (components.GridCoord{X: -100, Y: 400}) {
		t.Errorf("cell = %v, want {-100 400}", got)
	}
}

// TestHashGridReplacedInstance 替换 InstanceComponent 后重新计算
func TestHashGridReplacedInstance(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewHashGridSystem(em, 100, 0)
	id, _ := newCollidable(em, 0, 0, 10)
	s.Update(0.016)

	// 新组件的 Version 同为 0，但来源不同
	ecs.AddComponent(em, id, components.NewInstance(800, 800, 10, 10, 0))
	s.Update(0.016)
	if got := cellOf(t, em, id); got != (components.GridCoord{X: 800, Y: 800}) {
		t.Errorf("cell = %v, want {800 800}", got)
	}
}

// TestHashGridParallelBatches 多批次并行更新结果与顺序执行一致
func TestHashGridParallelBatches(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewHashGridSystem(em, 50, 7)

	ids := make([]ecs.EntityID, 0, 200)
	insts := make([]*components.InstanceComponent, 0, 200)
	for i := 0; i < 200; i++ {
		id, inst := newCollidable(em, float64(i*13), float64(-i*7), 1)
		ids = append(ids, id)
		insts = append(insts, inst)
	}
	s.Update(0.016)

	for _, inst := range insts {
		inst.MoveTo(inst.X+33, inst.Y+33)
	}
	s.Update(0.016)

	for i, id := range ids {
		want := CellFor(insts[i].X, insts[i].Y, 50)
		if got := cellOf(t, em, id); got != want {
			t.Fatalf("entity %d: cell = %v, want %v", i, got, want)
		}
	}
}

// TestNewHashGridSystemDefaults 非法参数回退到默认值
func TestNewHashGridSystemDefaults(t *testing.T) {
	s := NewHashGridSystem(ecs.NewEntityManager(), 0, -1)
	if s.GridSize() != 100 {
		t.Errorf("GridSize() = %d, want 100", s.GridSize())
	}
	if s.batchSize != ecs.DefaultBatchSize {
		t.Errorf("batchSize = %d, want %d", s.batchSize, ecs.DefaultBatchSize)
	}
}
