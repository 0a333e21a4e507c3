package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// Player 播放一个音频文件，阻塞直到播放结束。
type Player interface {
	PlayFile(ctx context.Context, path string) error
}

// PCMPlayer 直接播放内存中的 PCM。
type PCMPlayer interface {
	Play(ctx context.Context, pcm PCM16) error
}

// MalgoPlayer 使用 malgo (miniaudio) 在默认扬声器上播放。
type MalgoPlayer struct {
	ctx    *malgo.AllocatedContext
	mu     sync.Mutex
	closed bool
}

// NewMalgoPlayer 初始化播放上下文。
func NewMalgoPlayer() (*MalgoPlayer, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("初始化播放上下文失败: %w", err)
	}
	return &MalgoPlayer{ctx: ctx}, nil
}

// PlayFile 读取 WAV/MP3 文件，规范化为 16-bit 后播放。
func (p *MalgoPlayer) PlayFile(ctx context.Context, path string) error {
	buf, err := LoadFile(path)
	if err != nil {
		return err
	}
	pcm, err := Normalize(buf)
	if err != nil {
		return err
	}
	return p.Play(ctx, pcm)
}

// Play 播放 16-bit PCM，阻塞直到播放完成或 ctx 被取消。
func (p *MalgoPlayer) Play(ctx context.Context, pcm PCM16) error {
	if len(pcm.Samples) == 0 {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("播放器已关闭")
	}
	p.mu.Unlock()

	pcmBytes := Int16ToBytes(pcm.Samples)
	channels := uint32(pcm.Channels)
	pos := 0
	done := make(chan struct{})

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = channels
	deviceConfig.SampleRate = uint32(pcm.SampleRate)
	deviceConfig.PeriodSizeInFrames = 512
	deviceConfig.Periods = 2

	callbacks := malgo.DeviceCallbacks{
		Data: func(outputSamples, inputSamples []byte, frameCount uint32) {
			bytesNeeded := int(frameCount) * int(channels) * 2
			if pos >= len(pcmBytes) {
				// 数据播完，填充静音
				for i := range outputSamples[:bytesNeeded] {
					outputSamples[i] = 0
				}
				select {
				case done <- struct{}{}:
				default:
				}
				return
			}

			end := pos + bytesNeeded
			if end > len(pcmBytes) {
				end = len(pcmBytes)
			}
			copy(outputSamples, pcmBytes[pos:end])
			for i := end - pos; i < bytesNeeded; i++ {
				outputSamples[i] = 0
			}
			pos = end
		},
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("初始化播放设备失败: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("启动播放设备失败: %w", err)
	}
	defer device.Stop()

	select {
	case <-ctx.Done():
		logger.Infof("[audio] 播放被取消")
		return ctx.Err()
	case <-done:
		logger.Debugf("[audio] 播放完成 (%v)", pcm.Duration())
		return nil
	}
}

// Close 释放播放上下文。
func (p *MalgoPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
}

// CommandPlayer 调用外部播放命令（如 aplay、afplay），文件路径作为最后一个参数。
type CommandPlayer struct {
	name string
	args []string
}

// NewCommandPlayer 创建外部命令播放器。
func NewCommandPlayer(name string, args ...string) *CommandPlayer {
	return &CommandPlayer{name: name, args: args}
}

// PlayFile 执行播放命令并等待其退出。
func (c *CommandPlayer) PlayFile(ctx context.Context, path string) error {
	args := append(append([]string{}, c.args...), path)
	cmd := exec.CommandContext(ctx, c.name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("[audio] %s 执行失败: %w, stderr: %s", c.name, err, stderr.String())
	}
	return nil
}
