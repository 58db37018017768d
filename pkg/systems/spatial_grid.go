package systems

import "github.com/decker502/simcore/pkg/components"

// RoundToNearest 将 x 对齐到 incr 的整数倍
//
// x 先向零截断为整数，然后按绝对值四舍五入（恰好在中点时远离零），
// 最后恢复符号，因此 RoundToNearest(-x, g) == -RoundToNearest(x, g)。
// 例如 incr=100: 250→300, 249.9→200, -250→-300, -249.9→-200。
// incr 必须为正。
func RoundToNearest(x float64, incr int) int {
	i := int(x)
	res := i
	if res < 0 {
		res = -res
	}
	res += incr / 2
	res -= res % incr
	if i < 0 {
		return -res
	}
	return res
}

// CellFor 计算坐标所在的网格单元
func CellFor(x, y float64, gridSize int) components.GridCoord {
	return components.GridCoord{
		X: RoundToNearest(x, gridSize),
		Y: RoundToNearest(y, gridSize),
	}
}

// GridNeighbors 返回单元自身及其 8 个相邻单元
//
// 顺序固定: 自身, (x,y+g), (x,y-g), (x+g,y), (x-g,y),
// (x+g,y-g), (x+g,y+g), (x-g,y-g), (x-g,y+g)。
// 碰撞结果的发现顺序依赖于该顺序。
func GridNeighbors(c components.GridCoord, gridSize int) [9]components.GridCoord {
	g := gridSize
	return [9]components.GridCoord{
		c,
		{X: c.X, Y: c.Y + g},
		{X: c.X, Y: c.Y - g},
		{X: c.X + g, Y: c.Y},
		{X: c.X - g, Y: c.Y},
		{X: c.X + g, Y: c.Y - g},
		{X: c.X + g, Y: c.Y + g},
		{X: c.X - g, Y: c.Y - g},
		{X: c.X - g, Y: c.Y + g},
	}
}

// Overlapping 检测两个实例的轴对齐包围盒是否重叠
//
// 包围盒为位置 ± 尺寸/2，忽略旋转。边缘恰好接触不算重叠。
func Overlapping(a, b *components.InstanceComponent) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.Bounds()
	bMinX, bMinY, bMaxX, bMaxY := b.Bounds()
	return aMinX < bMaxX && aMaxX > bMinX && aMaxY > bMinY && aMinY < bMaxY
}
