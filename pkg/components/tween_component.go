package components

import (
	"github.com/decker502/simcore/pkg/types"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenTarget 补间作用的 InstanceComponent 属性
type TweenTarget int

const (
	TweenPosition TweenTarget = iota // X, Y
	TweenRotation                    // Rotation
	TweenScale                       // ScaleX, ScaleY
	TweenColor                       // Color.R/G/B/A
)

// Tween 一个属性的补间动画，最多同时驱动 4 个分量
type Tween struct {
	Target TweenTarget
	tweens [4]*gween.Tween
	count  int
}

// Update 推进 dt 秒，将当前值写入 out[:count]，返回是否全部完成
func (t *Tween) Update(dt float32, out *[4]float32) bool {
	done := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		out[i] = val
		if !finished {
			done = false
		}
	}
	return done
}

func newTween(target TweenTarget, duration float32, fn ease.TweenFunc, from, to []float32) Tween {
	if fn == nil {
		fn = ease.Linear
	}
	t := Tween{Target: target, count: len(from)}
	for i := range from {
		t.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	return t
}

// NewPositionTween 创建位置补间
func NewPositionTween(fromX, fromY, toX, toY float64, duration float32, fn ease.TweenFunc) Tween {
	return newTween(TweenPosition, duration, fn,
		[]float32{float32(fromX), float32(fromY)},
		[]float32{float32(toX), float32(toY)})
}

// NewRotationTween 创建旋转补间（弧度）
func NewRotationTween(from, to float64, duration float32, fn ease.TweenFunc) Tween {
	return newTween(TweenRotation, duration, fn,
		[]float32{float32(from)},
		[]float32{float32(to)})
}

// NewScaleTween 创建尺寸补间
func NewScaleTween(fromX, fromY, toX, toY float64, duration float32, fn ease.TweenFunc) Tween {
	return newTween(TweenScale, duration, fn,
		[]float32{float32(fromX), float32(fromY)},
		[]float32{float32(toX), float32(toY)})
}

// NewColorTween 创建颜色补间
func NewColorTween(from, to types.Color, duration float32, fn ease.TweenFunc) Tween {
	return newTween(TweenColor, duration, fn,
		[]float32{from.R, from.G, from.B, from.A},
		[]float32{to.R, to.G, to.B, to.A})
}

// TweenComponent 实体上正在进行的补间动画
//
// 所有补间完成后 TweenSystem 会移除该组件。
type TweenComponent struct {
	Tweens []Tween
}
