package components

// ShapeFrame 形状动画的一帧
type ShapeFrame struct {
	ShapeID  uint32
	Duration float64 // 持续时间（秒）
}

// ShapeAnimationComponent 按时间轮换 InstanceComponent.ShapeID 的帧动画
type ShapeAnimationComponent struct {
	Frames       []ShapeFrame
	Speed        float64 // 播放速度倍率，0 视为 1
	IsLooping    bool
	CurrentTime  float64 // 当前帧计时（秒）
	CurrentFrame int     // 当前帧索引(0-based)
	IsFinished   bool    // 动画是否已完成(仅对非循环动画有效)
}

// TotalDuration 返回所有帧的总时长
func (a *ShapeAnimationComponent) TotalDuration() float64 {
	total := 0.0
	for _, f := range a.Frames {
		total += f.Duration
	}
	return total
}

// FrameAt 返回时间 t 所在的帧索引，超出总时长时返回最后一帧
func (a *ShapeAnimationComponent) FrameAt(t float64) int {
	elapsed := 0.0
	for i, f := range a.Frames {
		elapsed += f.Duration
		if t < elapsed {
			return i
		}
	}
	return len(a.Frames) - 1
}
