package tts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/logger"
)

// EdgeEngine 使用微软 Edge TTS 朗读，
// 通过 edge-tts-go 获取 MP3 音频，解码后直接播放。
type EdgeEngine struct {
	voice  string
	player audio.PCMPlayer
}

// NewEdgeEngine 创建指定语音的 Edge TTS 引擎。
func NewEdgeEngine(voice string, player audio.PCMPlayer) *EdgeEngine {
	return &EdgeEngine{voice: voice, player: player}
}

// Speak 合成并播放文本。
func (e *EdgeEngine) Speak(ctx context.Context, text string) error {
	mp3Data, err := e.fetch(ctx, text)
	if err != nil {
		return err
	}
	return playMP3(ctx, e.player, "edge-tts", mp3Data)
}

func (e *EdgeEngine) fetch(ctx context.Context, text string) ([]byte, error) {
	logger.Debugf("[tts] edge-tts: 正在合成 %d 个字符，语音=%s", len([]rune(text)), e.voice)

	comm, err := edge.NewCommunicate(text, edge.WithVoice(e.voice))
	if err != nil {
		return nil, fmt.Errorf("[tts] edge-tts 创建实例失败: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return nil, fmt.Errorf("[tts] edge-tts 开始流式合成失败: %w", err)
	}

	var mp3Buf bytes.Buffer
	for msg := range ch {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		// type=="audio" 的条目包含音频数据
		if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
			if data, ok := msg["data"].([]byte); ok {
				mp3Buf.Write(data)
			}
		}
	}
	return mp3Buf.Bytes(), nil
}
