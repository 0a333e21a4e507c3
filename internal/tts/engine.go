package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/logger"
)

// Speaker 是本地语音引擎：同步朗读文本，返回时播放已结束。
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// runCommand 执行外部命令，失败时附带 stderr。
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("[tts] %s 执行失败: %w, stderr: %s", name, err, stderr.String())
	}
	return nil
}

// playMP3 解码云端返回的 MP3 并直接播放，不落盘。
func playMP3(ctx context.Context, player audio.PCMPlayer, name string, mp3Data []byte) error {
	if len(mp3Data) == 0 {
		return fmt.Errorf("[tts] %s: 未收到音频数据", name)
	}
	logger.Debugf("[tts] %s: 收到 %d 字节 MP3 数据", name, len(mp3Data))

	buf, err := audio.DecodeMP3(mp3Data)
	if err != nil {
		return fmt.Errorf("[tts] %s: %w", name, err)
	}
	pcm, err := audio.Normalize(buf)
	if err != nil {
		return fmt.Errorf("[tts] %s: %w", name, err)
	}
	pcm = audio.DownmixMono(pcm)

	logger.Debugf("[tts] %s: 解码得到 %d 个单声道样本，采样率 %d Hz", name, len(pcm.Samples), pcm.SampleRate)
	return player.Play(ctx, pcm)
}
