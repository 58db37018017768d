// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 是非预乘 alpha 的 RGBA 颜色，各通道取值 0-1
//
// 使用 float32 与渲染顶点（ebiten.Vertex.ColorR 等）保持一致。
type Color struct {
	R, G, B, A float32
}

// 常用颜色
var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{A: 1}
	Transparent = Color{}
)

// RGBA 创建颜色
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Lerp 在两个颜色之间按 t 线性插值（逐通道）
func (c Color) Lerp(to Color, t float32) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// ParseColor 解析颜色字符串
//
// 支持的格式:
//   - 十六进制: "#rrggbb" 或 "#rrggbbaa"
//   - 通道列表: "1 0 0 1"（0-1 浮点数，alpha 可省略）
//   - 命名颜色: "white", "black", "red", "green", "blue", "transparent"
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}

	if named, ok := namedColors[strings.ToLower(s)]; ok {
		return named, nil
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		if len(hex) == 6 {
			hex += "ff"
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return Color{
			R: float32((v>>24)&0xff) / 255,
			G: float32((v>>16)&0xff) / 255,
			B: float32((v>>8)&0xff) / 255,
			A: float32(v&0xff) / 255,
		}, nil
	}

	parts := strings.Fields(s)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid color %q: want 3 or 4 channels", s)
	}
	channels := [4]float32{1, 1, 1, 1}
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color channel %q: %w", p, err)
		}
		channels[i] = float32(v)
	}
	return Color{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}

var namedColors = map[string]Color{
	"white":       White,
	"black":       Black,
	"transparent": Transparent,
	"red":         {R: 1, A: 1},
	"green":       {G: 1, A: 1},
	"blue":        {B: 1, A: 1},
}
