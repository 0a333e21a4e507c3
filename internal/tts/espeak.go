package tts

import (
	"context"
	"strconv"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// EspeakEngine 调用 espeak-ng，适用于 Linux。
type EspeakEngine struct {
	binary string
	voice  string
	speed  int
}

// NewEspeakEngine 创建 espeak-ng 引擎。binary 为空时使用 "espeak-ng"。
func NewEspeakEngine(binary, voice string, speed int) *EspeakEngine {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &EspeakEngine{binary: binary, voice: voice, speed: speed}
}

func (e *EspeakEngine) args(text string) []string {
	var args []string
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	if e.speed > 0 {
		args = append(args, "-s", strconv.Itoa(e.speed))
	}
	return append(args, "--", text)
}

// Speak 朗读文本，阻塞直到朗读结束。
func (e *EspeakEngine) Speak(ctx context.Context, text string) error {
	logger.Debugf("[tts] %s: 正在朗读 %d 个字符", e.binary, len([]rune(text)))
	return runCommand(ctx, e.binary, e.args(text)...)
}
