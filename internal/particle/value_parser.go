package particle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/simcore/pkg/types"
)

// ErrEmptyValue 表示配置字段为空字符串，调用方应使用默认值
var ErrEmptyValue = errors.New("empty value")

// ParseJittered 解析抖动值字符串
//
// 支持的格式:
//   - 固定值: "25" → Base=25
//   - 基础值+抖动范围: "25 [-10 10]" → Base=25, Jitter=[-10, 10)
//   - 范围: "[8 12]" → Base=8, Jitter=[0, 4)
//   - 单值范围: "[8]" → Base=8
func ParseJittered(s string) (JitteredValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return JitteredValue{}, ErrEmptyValue
	}

	// "[min max]" 或 "[value]"
	if strings.HasPrefix(s, "[") {
		lo, hi, err := parseRange(s)
		if err != nil {
			return JitteredValue{}, err
		}
		return Jittered(lo, 0, hi-lo), nil
	}

	// "base [min max]"
	if idx := strings.Index(s, "["); idx > 0 {
		base, err := parseFloat(strings.TrimSpace(s[:idx]))
		if err != nil {
			return JitteredValue{}, err
		}
		lo, hi, err := parseRange(s[idx:])
		if err != nil {
			return JitteredValue{}, err
		}
		return Jittered(base, lo, hi), nil
	}

	v, err := parseFloat(s)
	if err != nil {
		return JitteredValue{}, err
	}
	return Fixed(v), nil
}

// parseRange 解析 "[min max]" 或 "[value]"
func parseRange(s string) (lo, hi float64, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, 0, fmt.Errorf("invalid range %q", s)
	}
	parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	switch len(parts) {
	case 1:
		v, err := parseFloat(parts[0])
		return v, v, err
	case 2:
		if lo, err = parseFloat(parts[0]); err != nil {
			return 0, 0, err
		}
		if hi, err = parseFloat(parts[1]); err != nil {
			return 0, 0, err
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("invalid range %q: max < min", s)
		}
		return lo, hi, nil
	default:
		return 0, 0, fmt.Errorf("invalid range %q: want 1 or 2 values", s)
	}
}

// ParseCurve 解析标量曲线字符串
//
// 支持的格式:
//   - 常量: "5"
//   - 关键帧: "0,1 0.5,2 1,0"（time,value 对，time 为 0-1 的生命百分比）
//   - 正弦: "sin" / "sin 150 5" / "sin 150 5 0.5 10"（[振幅 [周期 [相位 [垂直偏移]]]]，省略时振幅 1、周期 1）
//   - 缓动: "ease InOutQuad 0 100"（函数名 起始值 结束值）
func ParseCurve(s string) (ValueOverTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ValueOverTime{}, ErrEmptyValue
	}
	fields := strings.Fields(s)

	switch strings.ToLower(fields[0]) {
	case "sin", "sine":
		return parseSine(fields[1:])
	case "ease":
		if len(fields) != 4 {
			return ValueOverTime{}, fmt.Errorf("invalid eased curve %q: want \"ease <name> <from> <to>\"", s)
		}
		from, err := parseFloat(fields[2])
		if err != nil {
			return ValueOverTime{}, err
		}
		to, err := parseFloat(fields[3])
		if err != nil {
			return ValueOverTime{}, err
		}
		return EasedCurve(from, to, fields[1])
	}

	if strings.Contains(s, ",") {
		points := make([]ValuePoint, 0, len(fields))
		for _, part := range fields {
			pair := strings.Split(part, ",")
			if len(pair) != 2 {
				return ValueOverTime{}, fmt.Errorf("invalid keyframe %q in %q", part, s)
			}
			t, err := parseFloat(pair[0])
			if err != nil {
				return ValueOverTime{}, err
			}
			v, err := parseFloat(pair[1])
			if err != nil {
				return ValueOverTime{}, err
			}
			points = append(points, ValuePoint{Value: v, Position: t})
		}
		return GradientValue(points...), nil
	}

	v, err := parseFloat(s)
	if err != nil {
		return ValueOverTime{}, err
	}
	return ConstantValue(v), nil
}

func parseSine(args []string) (ValueOverTime, error) {
	if len(args) > 4 {
		return ValueOverTime{}, fmt.Errorf("invalid sine curve: want \"sin [amplitude] [period] [phase] [shift]\"")
	}
	// 省略的参数沿用默认正弦曲线
	w := DefaultSinWave()
	fields := []*float64{&w.Amplitude, &w.Period, &w.PhaseShift, &w.VerticalShift}
	for i, a := range args {
		v, err := parseFloat(a)
		if err != nil {
			return ValueOverTime{}, err
		}
		*fields[i] = v
	}
	return SineValue(w), nil
}

// ParseColorCurve 解析颜色字符串
//
// 支持的格式:
//   - 常量: "white" / "#ff8800" / "1 0.5 0 1"
//   - 渐变: "white,0 red,0.5 #0000ff00,1"（color,position 对，颜色只能是名称或十六进制）
func ParseColorCurve(s string) (ColorOverTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ColorOverTime{}, ErrEmptyValue
	}

	if !strings.Contains(s, ",") {
		c, err := types.ParseColor(s)
		if err != nil {
			return ColorOverTime{}, err
		}
		return ConstantColor(c), nil
	}

	parts := strings.Fields(s)
	points := make([]ColorPoint, 0, len(parts))
	for _, part := range parts {
		idx := strings.LastIndex(part, ",")
		if idx <= 0 {
			return ColorOverTime{}, fmt.Errorf("invalid color stop %q in %q", part, s)
		}
		c, err := types.ParseColor(part[:idx])
		if err != nil {
			return ColorOverTime{}, err
		}
		pos, err := parseFloat(part[idx+1:])
		if err != nil {
			return ColorOverTime{}, err
		}
		points = append(points, ColorPoint{Color: c, Position: pos})
	}
	return GradientColor(NewGradient(points...)), nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}
