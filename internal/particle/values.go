package particle

import (
	"math"
	"sort"

	"github.com/decker502/simcore/pkg/types"
	"github.com/tanema/gween/ease"
)

// RandomSource 是粒子系统使用的均匀随机数来源
//
// *math/rand/v2.Rand 满足该接口；测试中注入固定种子即可得到可复现的结果。
type RandomSource interface {
	// Float64 返回 [0, 1) 区间内的均匀随机数
	Float64() float64
}

// CurveKind 标识 ValueOverTime 的曲线类型
type CurveKind int

const (
	CurveConstant CurveKind = iota // 常量
	CurveSine                      // 正弦波
	CurveGradient                  // 分段线性插值
	CurveEased                     // 缓动插值（gween ease 函数）
)

// String 返回曲线类型名称（用于日志和配置错误信息）
func (k CurveKind) String() string {
	switch k {
	case CurveConstant:
		return "constant"
	case CurveSine:
		return "sine"
	case CurveGradient:
		return "gradient"
	case CurveEased:
		return "eased"
	default:
		return "unknown"
	}
}

// SinWave 正弦曲线参数
//
// 取值: VerticalShift + Amplitude * sin(2π * pct / Period + PhaseShift)
type SinWave struct {
	Amplitude     float64
	Period        float64 // 周期（以生命百分比计），<=0 时按 1 处理
	PhaseShift    float64 // 相位偏移（弧度）
	VerticalShift float64 // 垂直偏移
}

// DefaultSinWave 返回振幅 1、周期 1 的正弦曲线
func DefaultSinWave() SinWave {
	return SinWave{Amplitude: 1, Period: 1}
}

// At 计算 pct 处的正弦值
func (w SinWave) At(pct float64) float64 {
	period := w.Period
	if period <= 0 {
		period = 1
	}
	return w.VerticalShift + w.Amplitude*math.Sin(2*math.Pi*pct/period+w.PhaseShift)
}

// ValuePoint 标量渐变的一个节点
type ValuePoint struct {
	Value    float64
	Position float64 // 0-1
}

// EasedValue 从 From 到 To 的缓动曲线
type EasedValue struct {
	From float64
	To   float64
	Ease string // gween 缓动函数名，如 "InOutQuad"
}

// ValueOverTime 随生命百分比变化的标量曲线
//
// 用于发射速率、加速度和缩放。零值是常量 0。
type ValueOverTime struct {
	Kind     CurveKind
	Constant float64
	Sine     SinWave
	Points   []ValuePoint // CurveGradient: 按 Position 升序
	Eased    EasedValue

	easeFn ease.TweenFunc
}

// ConstantValue 创建常量曲线
func ConstantValue(v float64) ValueOverTime {
	return ValueOverTime{Kind: CurveConstant, Constant: v}
}

// SineValue 创建正弦曲线
func SineValue(w SinWave) ValueOverTime {
	return ValueOverTime{Kind: CurveSine, Sine: w}
}

// GradientValue 创建分段线性曲线，节点按位置排序（不修改入参）
func GradientValue(points ...ValuePoint) ValueOverTime {
	sorted := make([]ValuePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return ValueOverTime{Kind: CurveGradient, Points: sorted}
}

// EasedCurve 创建缓动曲线
// 缓动函数名未知时返回 ErrUnknownEase
func EasedCurve(from, to float64, easeName string) (ValueOverTime, error) {
	fn, ok := EaseFunc(easeName)
	if !ok {
		return ValueOverTime{}, unknownEase(easeName)
	}
	return ValueOverTime{
		Kind:   CurveEased,
		Eased:  EasedValue{From: from, To: to, Ease: easeName},
		easeFn: fn,
	}, nil
}

// At 计算生命百分比 pct 处的曲线值
func (v ValueOverTime) At(pct float64) float64 {
	switch v.Kind {
	case CurveSine:
		return v.Sine.At(pct)
	case CurveGradient:
		return evaluatePoints(v.Points, pct)
	case CurveEased:
		fn := v.easeFn
		if fn == nil {
			// 通过结构体字面量构造（如 YAML 解码）时懒加载
			var ok bool
			if fn, ok = EaseFunc(v.Eased.Ease); !ok {
				fn = ease.Linear
			}
		}
		t := clamp01(pct)
		return float64(fn(float32(t), float32(v.Eased.From), float32(v.Eased.To-v.Eased.From), 1))
	default:
		return v.Constant
	}
}

// evaluatePoints 在有序节点间线性插值，范围外取端点值
func evaluatePoints(points []ValuePoint, pct float64) float64 {
	switch len(points) {
	case 0:
		return 0
	case 1:
		return points[0].Value
	}
	if pct <= points[0].Position {
		return points[0].Value
	}
	last := points[len(points)-1]
	if pct >= last.Position {
		return last.Value
	}
	for i := 0; i < len(points)-1; i++ {
		p0, p1 := points[i], points[i+1]
		if pct >= p0.Position && pct <= p1.Position {
			span := p1.Position - p0.Position
			if span <= 0 {
				return p1.Value
			}
			ratio := (pct - p0.Position) / span
			return p0.Value + ratio*(p1.Value-p0.Value)
		}
	}
	return last.Value
}

// ColorPoint 颜色渐变的一个节点
type ColorPoint struct {
	Color    types.Color
	Position float64 // 0-1
}

// Gradient 有序颜色渐变
//
// 节点在构造时按 Position 升序排列；查询位置超出范围时取首/尾节点颜色。
type Gradient struct {
	points []ColorPoint
}

// NewGradient 创建颜色渐变（不修改入参）
func NewGradient(points ...ColorPoint) Gradient {
	sorted := make([]ColorPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return Gradient{points: sorted}
}

// Points 返回排序后的节点
func (g Gradient) Points() []ColorPoint {
	return g.points
}

// Len 返回节点数量
func (g Gradient) Len() int {
	return len(g.points)
}

// At 计算 pct 处的颜色
func (g Gradient) At(pct float64) types.Color {
	n := len(g.points)
	if n == 0 {
		return types.White
	}
	if n == 1 || pct <= g.points[0].Position {
		return g.points[0].Color
	}
	last := g.points[n-1]
	if pct >= last.Position {
		return last.Color
	}
	for i := 0; i < n-1; i++ {
		p0, p1 := g.points[i], g.points[i+1]
		if pct >= p0.Position && pct <= p1.Position {
			span := p1.Position - p0.Position
			if span <= 0 {
				return p1.Color
			}
			return p0.Color.Lerp(p1.Color, float32((pct-p0.Position)/span))
		}
	}
	return last.Color
}

// ColorOverTime 粒子颜色：常量或随生命百分比变化的渐变
type ColorOverTime struct {
	Constant    types.Color
	Gradient    Gradient
	UseGradient bool
}

// ConstantColor 创建常量颜色
func ConstantColor(c types.Color) ColorOverTime {
	return ColorOverTime{Constant: c}
}

// GradientColor 创建渐变颜色
func GradientColor(g Gradient) ColorOverTime {
	return ColorOverTime{Gradient: g, UseGradient: true}
}

// At 计算 pct 处的颜色
func (c ColorOverTime) At(pct float64) types.Color {
	if c.UseGradient {
		return c.Gradient.At(pct)
	}
	return c.Constant
}

// JitteredValue 基础值加均匀随机偏移，每次取值都重新采样
type JitteredValue struct {
	Base      float64
	JitterMin float64
	JitterMax float64
}

// Fixed 创建无抖动的值
func Fixed(v float64) JitteredValue {
	return JitteredValue{Base: v}
}

// Jittered 创建带抖动范围 [min, max) 的值
func Jittered(base, lo, hi float64) JitteredValue {
	return JitteredValue{Base: base, JitterMin: lo, JitterMax: hi}
}

// Value 采样一次: Base + uniform[JitterMin, JitterMax)
// 抖动范围为空时直接返回 Base，不消耗随机数
func (j JitteredValue) Value(rng RandomSource) float64 {
	if j.JitterMax <= j.JitterMin || rng == nil {
		return j.Base
	}
	return j.Base + j.JitterMin + rng.Float64()*(j.JitterMax-j.JitterMin)
}

// MinValue 返回可能采样到的最小值
func (j JitteredValue) MinValue() float64 {
	if j.JitterMax <= j.JitterMin {
		return j.Base
	}
	return j.Base + j.JitterMin
}

// Burst 在系统时间 Time（秒）时额外发射 Count 个粒子
type Burst struct {
	Time  float64 `yaml:"time"`
	Count int     `yaml:"count"`
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

var easeFuncs = map[string]ease.TweenFunc{
	"Linear":     ease.Linear,
	"InQuad":     ease.InQuad,
	"OutQuad":    ease.OutQuad,
	"InOutQuad":  ease.InOutQuad,
	"InCubic":    ease.InCubic,
	"OutCubic":   ease.OutCubic,
	"InOutCubic": ease.InOutCubic,
	"InSine":     ease.InSine,
	"OutSine":    ease.OutSine,
	"InOutSine":  ease.InOutSine,
	"InExpo":     ease.InExpo,
	"OutExpo":    ease.OutExpo,
	"InOutExpo":  ease.InOutExpo,
	"InBack":     ease.InBack,
	"OutBack":    ease.OutBack,
	"OutBounce":  ease.OutBounce,
	"OutElastic": ease.OutElastic,
}

// EaseFunc 按名称查找缓动函数，空名称视为 Linear
func EaseFunc(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return ease.Linear, true
	}
	fn, ok := easeFuncs[name]
	return fn, ok
}
