package systems

import (
	"image/color"
	"log"
	"math"

	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 内置形状 ID
const (
	ShapeSquare uint32 = iota
	ShapeCircle
)

// shapeImageSize 内置形状贴图的边长（像素）
const shapeImageSize = 32

// maxBatchVertices 单次 DrawTriangles 的顶点上限
// 索引为 uint16，取不超过 65535 的 4 的倍数
const maxBatchVertices = 65532

// RenderSystem 批量绘制所有 InstanceComponent
//
// 渲染流程：
//  1. 按 ShapeID 分组（组间顺序为首次出现顺序，组内为实体创建顺序）
//  2. 每个实例生成 4 个顶点（中心对齐、旋转、缩放到 ScaleX × ScaleY）
//  3. 同一形状共享一张贴图，一次 DrawTriangles 绘制整组
//
// 顶点颜色为直通 Alpha（非预乘），直接取 InstanceComponent.Color。
// 超过 uint16 索引范围时拆分为多次绘制。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	shapes        map[uint32]*ebiten.Image
	vertices      []ebiten.Vertex // 顶点数组（复用，避免每帧分配）
	indices       []uint16        // 索引数组（复用，避免每帧分配）
	warned        map[uint32]bool // 已报告缺失贴图的 ShapeID

	// CameraX, CameraY 摄像机左上角的世界坐标
	CameraX, CameraY float64

	// ShowGrid 绘制被占用的碰撞网格单元
	ShowGrid bool
	GridSize int
}

// NewRenderSystem 创建渲染系统并注册内置形状（方形、圆形）
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	s := &RenderSystem{
		entityManager: em,
		shapes:        make(map[uint32]*ebiten.Image),
		vertices:      make([]ebiten.Vertex, 0, 4000), // 预分配容量：1000 个实例（每个 4 顶点）
		indices:       make([]uint16, 0, 6000),        // 预分配容量：1000 个实例（每个 6 索引）
		warned:        make(map[uint32]bool),
		GridSize:      100,
	}

	square := ebiten.NewImage(shapeImageSize, shapeImageSize)
	square.Fill(color.White)
	s.shapes[ShapeSquare] = square

	circle := ebiten.NewImage(shapeImageSize, shapeImageSize)
	half := float32(shapeImageSize) / 2
	vector.DrawFilledCircle(circle, half, half, half, color.White, true)
	s.shapes[ShapeCircle] = circle

	return s
}

// RegisterShape 注册（或替换）形状贴图
func (s *RenderSystem) RegisterShape(id uint32, img *ebiten.Image) {
	s.shapes[id] = img
	delete(s.warned, id)
}

// shapeBatch 同一形状的一组实例
type shapeBatch struct {
	shapeID   uint32
	instances []*components.InstanceComponent
}

// collectBatches 按 ShapeID 分组所有可见实例
//
// 组间顺序为 ShapeID 首次出现的顺序，保证绘制顺序可复现。
// 完全透明或尺寸为 0 的实例被跳过。
func collectBatches(em *ecs.EntityManager) []shapeBatch {
	ids := ecs.GetEntitiesWith1[*components.InstanceComponent](em)

	batches := make([]shapeBatch, 0, 4)
	index := make(map[uint32]int)
	for _, id := range ids {
		inst, _ := ecs.GetComponent[*components.InstanceComponent](em, id)
		if inst.Color.A <= 0 || inst.ScaleX <= 0 || inst.ScaleY <= 0 {
			continue
		}
		i, ok := index[inst.ShapeID]
		if !ok {
			i = len(batches)
			index[inst.ShapeID] = i
			batches = append(batches, shapeBatch{shapeID: inst.ShapeID})
		}
		batches[i].instances = append(batches[i].instances, inst)
	}
	return batches
}

// appendInstanceQuad 追加一个实例的 4 个顶点和 6 个索引
//
// 顶点顺序：左上、右上、左下、右下；三角形为 (0,1,2) 和 (1,3,2)。
// srcW, srcH 为贴图尺寸，整个贴图映射到实例矩形上。
func appendInstanceQuad(
	vs []ebiten.Vertex, is []uint16,
	inst *components.InstanceComponent,
	srcW, srcH float32,
	cameraX, cameraY float64,
) ([]ebiten.Vertex, []uint16) {
	hw, hh := inst.ScaleX/2, inst.ScaleY/2
	corners := [4][2]float64{
		{-hw, -hh}, // 左上
		{hw, -hh},  // 右上
		{-hw, hh},  // 左下
		{hw, hh},   // 右下
	}
	src := [4][2]float32{
		{0, 0},
		{srcW, 0},
		{0, srcH},
		{srcW, srcH},
	}

	sin, cos := math.Sincos(inst.Rotation)
	r, g, b, a := inst.Color.R, inst.Color.G, inst.Color.B, inst.Color.A

	base := uint16(len(vs))
	for i, c := range corners {
		x := c[0]*cos - c[1]*sin + inst.X - cameraX
		y := c[0]*sin + c[1]*cos + inst.Y - cameraY
		vs = append(vs, ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   src[i][0],
			SrcY:   src[i][1],
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	is = append(is,
		base+0, base+1, base+2, // 第一个三角形
		base+1, base+3, base+2, // 第二个三角形
	)
	return vs, is
}

// Draw 绘制所有实例，ShowGrid 为真时叠加网格单元
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	for _, batch := range collectBatches(s.entityManager) {
		img, ok := s.shapes[batch.shapeID]
		if !ok {
			if !s.warned[batch.shapeID] {
				log.Printf("[RenderSystem] 警告：未注册的形状 %d，跳过 %d 个实例", batch.shapeID, len(batch.instances))
				s.warned[batch.shapeID] = true
			}
			continue
		}
		s.drawBatch(screen, img, batch.instances)
	}

	if s.ShowGrid {
		s.drawGrid(screen)
	}
}

func (s *RenderSystem) drawBatch(screen *ebiten.Image, img *ebiten.Image, instances []*components.InstanceComponent) {
	bounds := img.Bounds()
	srcW, srcH := float32(bounds.Dx()), float32(bounds.Dy())
	op := &ebiten.DrawTrianglesOptions{}

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, inst := range instances {
		if len(s.vertices)+4 > maxBatchVertices {
			screen.DrawTriangles(s.vertices, s.indices, img, op)
			s.vertices = s.vertices[:0]
			s.indices = s.indices[:0]
		}
		s.vertices, s.indices = appendInstanceQuad(s.vertices, s.indices, inst, srcW, srcH, s.CameraX, s.CameraY)
	}
	if len(s.vertices) > 0 {
		screen.DrawTriangles(s.vertices, s.indices, img, op)
	}
}

// occupiedCells 返回被至少一个实体占用的网格单元（按首次出现顺序）
func occupiedCells(em *ecs.EntityManager) []components.GridCoord {
	ids := ecs.GetEntitiesWith1[*components.HashGridCellComponent](em)
	seen := make(map[components.GridCoord]bool, len(ids))
	cells := make([]components.GridCoord, 0, len(ids))
	for _, id := range ids {
		cell, _ := ecs.GetComponent[*components.HashGridCellComponent](em, id)
		if !seen[cell.Cell] {
			seen[cell.Cell] = true
			cells = append(cells, cell.Cell)
		}
	}
	return cells
}

func (s *RenderSystem) drawGrid(screen *ebiten.Image) {
	if s.GridSize <= 0 {
		return
	}
	g := float32(s.GridSize)
	lineColor := color.RGBA{R: 0, G: 200, B: 255, A: 128}
	for _, c := range occupiedCells(s.entityManager) {
		// 单元以 Cell 为中心，边长为 gridSize
		x := float32(float64(c.X)-s.CameraX) - g/2
		y := float32(float64(c.Y)-s.CameraY) - g/2
		vector.StrokeRect(screen, x, y, g, g, 1, lineColor, false)
	}
}
