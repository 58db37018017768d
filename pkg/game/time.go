package game

import "time"

// Time 帧时间
//
// 由主循环每帧调用 Advance 或 Tick 推进，系统通过 Delta() 读取本帧时长。
type Time struct {
	delta float64
	total float64
	frame uint64
	last  time.Time
}

// NewTime 创建帧时间，起始时刻为当前时间
func NewTime() *Time {
	return &Time{last: time.Now()}
}

// Advance 以固定步长推进一帧（无头模拟、测试、固定 TPS 的 ebiten 循环）
func (t *Time) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	t.delta = dt
	t.total += dt
	t.frame++
}

// Tick 以墙钟时间推进一帧，返回本帧时长
func (t *Time) Tick(now time.Time) float64 {
	dt := now.Sub(t.last).Seconds()
	t.last = now
	t.Advance(dt)
	return t.delta
}

// Delta 本帧时长（秒）
func (t *Time) Delta() float64 {
	return t.delta
}

// Total 累计运行时间（秒）
func (t *Time) Total() float64 {
	return t.total
}

// Frame 已推进的帧数
func (t *Time) Frame() uint64 {
	return t.frame
}

// TimeScale 全局时间缩放
//
// 只对 UseScaledTime 的粒子发射器生效；帧内只读，由游戏逻辑在帧间修改。
// 为 nil 时等价于 1。
type TimeScale struct {
	Value float64
}

// ScaleFor 返回发射器实际使用的时间缩放
func (ts *TimeScale) ScaleFor(useScaledTime bool) float64 {
	if ts == nil || !useScaledTime {
		return 1
	}
	return ts.Value
}
