package scenes

import (
	"log"
	"strings"
)

// PresetBrowser 维护查看器中可选的预设列表、过滤条件和当前选中项
type PresetBrowser struct {
	all      []string
	filtered []string
	index    int
	query    string
}

// NewPresetBrowser 创建浏览器，names 应已排序
func NewPresetBrowser(names []string) *PresetBrowser {
	b := &PresetBrowser{all: names}
	b.filtered = names
	return b
}

// filterPresets returns presets matching the query (case-insensitive substring match)
func filterPresets(all []string, query string) []string {
	if query == "" {
		return all
	}

	queryLower := strings.ToLower(query)
	filtered := make([]string, 0)
	for _, name := range all {
		if strings.Contains(strings.ToLower(name), queryLower) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// SetFilter 设置过滤条件并回到第一项
// 没有匹配项时列表为空，Current 返回空字符串
func (b *PresetBrowser) SetFilter(query string) {
	b.query = query
	b.filtered = filterPresets(b.all, query)
	b.index = 0
	log.Printf("[PresetBrowser] Filter %q: %d/%d presets", query, len(b.filtered), len(b.all))
}

// Filter 返回当前过滤条件
func (b *PresetBrowser) Filter() string {
	return b.query
}

// Select 选中指定名称的预设，不在过滤结果中时返回 false
func (b *PresetBrowser) Select(name string) bool {
	for i, n := range b.filtered {
		if n == name {
			b.index = i
			return true
		}
	}
	return false
}

// Move 前后移动 delta 项（循环）
func (b *PresetBrowser) Move(delta int) {
	n := len(b.filtered)
	if n == 0 {
		return
	}
	b.index = ((b.index+delta)%n + n) % n
}

// First 跳到第一项
func (b *PresetBrowser) First() {
	b.index = 0
}

// Last 跳到最后一项
func (b *PresetBrowser) Last() {
	if len(b.filtered) > 0 {
		b.index = len(b.filtered) - 1
	}
}

// Current 返回当前选中的预设名称
func (b *PresetBrowser) Current() string {
	if len(b.filtered) == 0 {
		return ""
	}
	return b.filtered[b.index]
}

// Position 返回当前项序号（从 1 开始）和过滤后的总数
func (b *PresetBrowser) Position() (int, int) {
	if len(b.filtered) == 0 {
		return 0, 0
	}
	return b.index + 1, len(b.filtered)
}

// Total 返回未过滤的预设总数
func (b *PresetBrowser) Total() int {
	return len(b.all)
}
