package systems

import (
	"math"
	"testing"

	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// TestAppendInstanceQuad 测试实例四边形的顶点与索引
func TestAppendInstanceQuad(t *testing.T) {
	inst := components.NewInstance(100, 50, 20, 10, ShapeSquare)
	inst.Color = types.Color{R: 1, G: 0.5, B: 0.25, A: 0.5}

	vs, is := appendInstanceQuad(nil, nil, inst, 32, 32, 10, 5)
	if len(vs) != 4 || len(is) != 6 {
		t.Fatalf("got %d vertices / %d indices, want 4 / 6", len(vs), len(is))
	}

	want := [4][4]float32{
		// DstX, DstY, SrcX, SrcY
		{80, 40, 0, 0},
		{100, 40, 32, 0},
		{80, 50, 0, 32},
		{100, 50, 32, 32},
	}
	for i, v := range vs {
		if v.DstX != want[i][0] || v.DstY != want[i][1] || v.SrcX != want[i][2] || v.SrcY != want[i][3] {
			t.Errorf("vertex %d = (%v,%v,%v,%v), want %v", i, v.DstX, v.DstY, v.SrcX, v.SrcY, want[i])
		}
		// 直通 Alpha：颜色不预乘
		if v.ColorR != 1 || v.ColorG != 0.5 || v.ColorB != 0.25 || v.ColorA != 0.5 {
			t.Errorf("vertex %d color = (%v,%v,%v,%v)", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
		}
	}

	wantIdx := []uint16{0, 1, 2, 1, 3, 2}
	for i := range wantIdx {
		if is[i] != wantIdx[i] {
			t.Fatalf("indices = %v, want %v", is, wantIdx)
		}
	}

	// 第二个实例的索引基于已有顶点数
	vs, is = appendInstanceQuad(vs, is, inst, 32, 32, 0, 0)
	if is[6] != 4 || is[10] != 7 {
		t.Errorf("second quad indices = %v, want base 4", is[6:])
	}
}

// TestAppendInstanceQuadRotation 旋转 90 度后宽高互换
func TestAppendInstanceQuadRotation(t *testing.T) {
	inst := components.NewInstance(0, 0, 20, 10, ShapeSquare)
	inst.Rotation = math.Pi / 2

	vs, _ := appendInstanceQuad(nil, nil, inst, 1, 1, 0, 0)

	minX, maxX := float32(math.Inf(1)), float32(math.Inf(-1))
	minY, maxY := minX, maxX
	for _, v := range vs {
		minX, maxX = min(minX, v.DstX), max(maxX, v.DstX)
		minY, maxY = min(minY, v.DstY), max(maxY, v.DstY)
	}
	if math.Abs(float64(maxX-minX)-10) > 1e-4 || math.Abs(float64(maxY-minY)-20) > 1e-4 {
		t.Errorf("rotated extent = %vx%v, want 10x20", maxX-minX, maxY-minY)
	}
}

// TestCollectBatches 按首次出现顺序分组，跳过不可见实例
func TestCollectBatches(t *testing.T) {
	em := ecs.NewEntityManager()
	add := func(shape uint32, alpha float32, size float64) {
		id := em.CreateEntity()
		inst := components.NewInstance(0, 0, size, size, shape)
		inst.Color.A = alpha
		ecs.AddComponent(em, id, inst)
	}
	add(ShapeCircle, 1, 1)
	add(ShapeSquare, 1, 1)
	add(ShapeCircle, 1, 1)
	add(ShapeSquare, 0, 1) // 完全透明
	add(ShapeSquare, 1, 0) // 零尺寸
	add(7, 1, 1)

	batches := collectBatches(em)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	want := []struct {
		shape uint32
		n     int
	}{
		{ShapeCircle, 2},
		{ShapeSquare, 1},
		{7, 1},
	}
	for i, w := range want {
		if batches[i].shapeID != w.shape || len(batches[i].instances) != w.n {
			t.Errorf("batch %d = shape %d x%d, want shape %d x%d",
				i, batches[i].shapeID, len(batches[i].instances), w.shape, w.n)
		}
	}
}

// TestOccupiedCells 网格覆盖层只包含被占用的单元
func TestOccupiedCells(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := NewHashGridSystem(em, 100, 0)
	newCollidable(em, 0, 0, 1)
	newCollidable(em, 10, 10, 1)
	newCollidable(em, 260, -10, 1)
	grid.Update(0)

	cells := occupiedCells(em)
	want := []components.GridCoord{{X: 0, Y: 0}, {X: 300, Y: 0}}
	if len(cells) != len(want) {
		t.Fatalf("cells = %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, cells[i], want[i])
		}
	}
}

func BenchmarkAppendInstanceQuad(b *testing.B) {
	inst := components.NewInstance(10, 10, 4, 4, ShapeSquare)
	vs := make([]ebiten.Vertex, 0, 4)
	is := make([]uint16, 0, 6)
	for i := 0; i < b.N; i++ {
		vs, is = appendInstanceQuad(vs[:0], is[:0], inst, 32, 32, 0, 0)
	}
}
