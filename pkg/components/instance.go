package components

import "github.com/decker502/simcore/pkg/types"

// InstanceComponent 是可渲染实体的空间与外观属性
//
// 渲染系统每帧读取 X/Y/Rotation/ScaleX/ScaleY/Color/ShapeID 批量绘制；
// 碰撞系统以 (X, Y) ± Scale/2 作为轴对齐包围盒。
//
// 修改位置或尺寸后必须调用 MarkMoved()（或使用 MoveTo），
// HashGridSystem 通过 Version 判断是否需要重新计算网格单元。
type InstanceComponent struct {
	X, Y     float64 // 中心点世界坐标
	Rotation float64 // 旋转（弧度），碰撞检测忽略旋转

	// ScaleX, ScaleY 宽高（世界单位），不小于 0
	ScaleX, ScaleY float64

	Color   types.Color
	ShapeID uint32

	Version uint64 // 位置/尺寸变更计数
}

// NewInstance 创建以 (x, y) 为中心、宽高为 (w, h) 的白色实例
func NewInstance(x, y, w, h float64, shapeID uint32) *InstanceComponent {
	return &InstanceComponent{
		X:       x,
		Y:       y,
		ScaleX:  w,
		ScaleY:  h,
		Color:   types.White,
		ShapeID: shapeID,
	}
}

// MarkMoved 标记位置或尺寸已变化
func (i *InstanceComponent) MarkMoved() {
	i.Version++
}

// MoveTo 设置位置并标记变化
func (i *InstanceComponent) MoveTo(x, y float64) {
	i.X, i.Y = x, y
	i.Version++
}

// Bounds 返回轴对齐包围盒
func (i *InstanceComponent) Bounds() (minX, minY, maxX, maxY float64) {
	hw, hh := i.ScaleX/2, i.ScaleY/2
	return i.X - hw, i.Y - hh, i.X + hw, i.Y + hh
}

// PositionComponent 非渲染实体（如粒子发射器）的世界坐标
type PositionComponent struct {
	X, Y float64
}
