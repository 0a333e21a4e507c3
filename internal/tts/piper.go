package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/logger"
)

// piperSampleRate 是 piper 输出的固定采样率。
const piperSampleRate = 22050

// PiperEngine 使用 piper CLI 子进程合成，再交给播放器播放。
type PiperEngine struct {
	modelPath string
	player    audio.PCMPlayer
}

// NewPiperEngine 创建指定模型的 Piper 引擎。
func NewPiperEngine(modelPath string, player audio.PCMPlayer) *PiperEngine {
	return &PiperEngine{modelPath: modelPath, player: player}
}

// Speak 合成并播放文本。
// piper 输出 signed 16-bit LE 单声道 PCM，采样率 22050 Hz。
func (p *PiperEngine) Speak(ctx context.Context, text string) error {
	logger.Debugf("[tts] piper: 正在合成 %d 个字符，模型=%s", len([]rune(text)), p.modelPath)

	cmd := exec.CommandContext(ctx, "piper", "--model", p.modelPath, "--output-raw")
	cmd.Stdin = bytes.NewReader([]byte(text))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if s := stderr.String(); s != "" {
			logger.Warnf("[tts] piper stderr: %s", s)
		}
		return fmt.Errorf("[tts] piper 执行失败: %w", err)
	}

	raw := stdout.Bytes()
	if len(raw) == 0 {
		return fmt.Errorf("[tts] piper: 未收到音频数据")
	}
	// 丢弃奇数尾字节
	raw = raw[:len(raw)/2*2]

	pcm, err := audio.Normalize(audio.Buffer{
		Format:     audio.FormatS16,
		Channels:   1,
		SampleRate: piperSampleRate,
		Data:       raw,
	})
	if err != nil {
		return fmt.Errorf("[tts] piper: %w", err)
	}
	logger.Debugf("[tts] piper: 收到 %d 个样本", len(pcm.Samples))
	return p.player.Play(ctx, pcm)
}
