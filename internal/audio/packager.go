package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// Packager 把规范 PCM 写入临时 WAV 文件并负责播放后删除。
type Packager struct {
	dir    string
	player Player
}

// NewPackager 创建打包器。dir 为空时使用系统临时目录。
func NewPackager(dir string, player Player) *Packager {
	return &Packager{dir: dir, player: player}
}

// Package 写入临时 WAV 文件，返回其绝对路径。
func (p *Packager) Package(pcm PCM16) (string, error) {
	f, err := os.CreateTemp(p.dir, "ttsbuddy-*.wav")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	path := f.Name()

	if err := WriteWAV(f, pcm); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("关闭临时文件失败: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	logger.Debugf("[audio] 已写入临时 WAV: %s (%v)", abs, pcm.Duration())
	return abs, nil
}

// PlayAndRemove 播放文件，无论播放是否成功都会删除它。
func (p *Packager) PlayAndRemove(ctx context.Context, path string) error {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("[audio] 删除临时文件失败: %s: %v", path, err)
		}
	}()

	if p.player == nil {
		return fmt.Errorf("[audio] 未配置播放器")
	}
	return p.player.PlayFile(ctx, path)
}
