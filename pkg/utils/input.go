// Package utils 提供输入和平台相关的工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置，触摸优先
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放），只持续一帧
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（屏幕坐标）
	CurrentX, CurrentY int
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标）
	TouchID ebiten.TouchID
	// IsTouchInput 是否为触摸输入
	IsTouchInput bool
}

// PointerSample 一帧的指针输入
type PointerSample struct {
	JustPressed bool // 本帧刚按下
	Down        bool // 当前仍按住
	X, Y        int
	TouchID     ebiten.TouchID
	IsTouch     bool
}

// DragManager 跟踪触摸/鼠标的拖拽状态（用于查看器平移摄像机）
type DragManager struct {
	info DragInfo
}

// NewDragManager 创建拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{}
	dm.Reset()
	return dm
}

// Update 读取当前输入并推进拖拽状态（每帧调用一次）
func (dm *DragManager) Update() {
	dm.Step(dm.sample())
}

// sample 读取本帧指针输入，拖拽中只跟踪起始时的那个触摸点
func (dm *DragManager) sample() PointerSample {
	if dm.info.State == DragStateNone || dm.info.State == DragStateEnded {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			return PointerSample{JustPressed: true, Down: true, X: x, Y: y, TouchID: ids[0], IsTouch: true}
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			return PointerSample{JustPressed: true, Down: true, X: x, Y: y, TouchID: -1}
		}
		return PointerSample{TouchID: -1}
	}

	if dm.info.IsTouchInput {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if id == dm.info.TouchID {
				x, y := ebiten.TouchPosition(id)
				return PointerSample{Down: true, X: x, Y: y, TouchID: id, IsTouch: true}
			}
		}
		return PointerSample{X: dm.info.CurrentX, Y: dm.info.CurrentY, TouchID: dm.info.TouchID, IsTouch: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), X: x, Y: y, TouchID: -1}
}

// Step 用一帧的输入推进状态机
//
//	None --按下--> Started --> Dragging --释放--> Ended --> None
func (dm *DragManager) Step(p PointerSample) {
	switch dm.info.State {
	case DragStateNone:
		if p.JustPressed {
			dm.info = DragInfo{
				State:        DragStateStarted,
				StartX:       p.X,
				StartY:       p.Y,
				CurrentX:     p.X,
				CurrentY:     p.Y,
				TouchID:      p.TouchID,
				IsTouchInput: p.IsTouch,
			}
		}

	case DragStateStarted, DragStateDragging:
		dm.info.CurrentX, dm.info.CurrentY = p.X, p.Y
		if p.Down {
			dm.info.State = DragStateDragging
		} else {
			dm.info.State = DragStateEnded
		}

	case DragStateEnded:
		dm.Reset()
		if p.JustPressed {
			dm.Step(p)
		}
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (dm *DragManager) JustStarted() bool {
	return dm.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}

// IsTouchDrag 是否为触摸拖拽
func (dm *DragManager) IsTouchDrag() bool {
	return dm.info.IsTouchInput
}
