package tts

import (
	"context"
	"strconv"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// SayEngine 使用 macOS 内置 say 命令直接朗读。
// 仅在 macOS 上可用。
type SayEngine struct {
	voice string // macOS 语音名称，如 "Tingting"（中文）
	rate  int    // 每分钟词数，0 表示默认
}

// NewSayEngine 创建 macOS say 引擎。
// voice 为空时使用系统默认语音。
func NewSayEngine(voice string, rate int) *SayEngine {
	return &SayEngine{voice: voice, rate: rate}
}

func (s *SayEngine) args(text string) []string {
	var args []string
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	if s.rate > 0 {
		args = append(args, "-r", strconv.Itoa(s.rate))
	}
	return append(args, "--", text)
}

// Speak 朗读文本，阻塞直到朗读结束。
func (s *SayEngine) Speak(ctx context.Context, text string) error {
	logger.Debugf("[tts] say: 正在朗读 %d 个字符", len([]rune(text)))
	return runCommand(ctx, "say", s.args(text)...)
}
