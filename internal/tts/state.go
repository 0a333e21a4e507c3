package tts

import (
	"sync"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// State 表示合成会话的初始化状态。
type State int

const (
	// StateUninitialized 表示尚未选择后端。
	StateUninitialized State = iota
	// StateLocalEngineReady 表示本地语音引擎可用。
	StateLocalEngineReady
	// StateModelLoaded 表示模型超参数已解析。
	StateModelLoaded
	// StateReady 表示词表已构建，模型已打开。
	StateReady
	// StateFailed 表示初始化失败。
	StateFailed
)

var stateNames = [...]string{
	"Uninitialized",
	"LocalEngineReady",
	"ModelLoaded",
	"Ready",
	"Failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Terminal 报告该状态是否不再接受任何转换。
func (s State) Terminal() bool {
	return s == StateLocalEngineReady || s == StateReady || s == StateFailed
}

// StateMachine 管理线程安全的初始化状态转换。
type StateMachine struct {
	mu       sync.RWMutex
	current  State
	onChange func(from, to State)
}

// NewStateMachine 创建一个初始状态为 Uninitialized 的状态机。
func NewStateMachine() *StateMachine {
	return &StateMachine{current: StateUninitialized}
}

// SetOnChange 注册状态变化时的回调函数。
func (sm *StateMachine) SetOnChange(fn func(from, to State)) {
	sm.mu.Lock()
	sm.onChange = fn
	sm.mu.Unlock()
}

// Current 返回当前状态。
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// Transition 尝试切换状态。只有合法的转换才会生效：
//
//	Uninitialized → LocalEngineReady （选择本地引擎）
//	Uninitialized → ModelLoaded      （超参数解析成功）
//	ModelLoaded   → Ready            （词表与模型就绪）
//	Uninitialized → Failed
//	ModelLoaded   → Failed
//
// LocalEngineReady、Ready 和 Failed 为终态。
func (sm *StateMachine) Transition(to State) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !validTransition(sm.current, to) {
		logger.Warnf("[state] 非法转换 %s → %s", sm.current, to)
		return false
	}

	from := sm.current
	sm.current = to
	logger.Debugf("[state] %s → %s", from, to)

	if sm.onChange != nil {
		sm.onChange(from, to)
	}
	return true
}

// validTransition 检查状态转换是否合法。
func validTransition(from, to State) bool {
	switch from {
	case StateUninitialized:
		return to == StateLocalEngineReady || to == StateModelLoaded || to == StateFailed
	case StateModelLoaded:
		return to == StateReady || to == StateFailed
	}
	return false
}
