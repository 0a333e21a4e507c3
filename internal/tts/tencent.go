package tts

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tcvoice "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tts/v20190823"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/logger"
)

// TencentEngine 使用腾讯云 TTS 朗读。
// 适用于中国大陆网络环境，支持多种中文音色。
type TencentEngine struct {
	client    *tcvoice.Client
	voiceType int64
	speed     float64
	player    audio.PCMPlayer
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID  string
	SecretKey string
	VoiceType int64
	Region    string
	Speed     float64
}

// NewTencentEngine 创建腾讯云 TTS 引擎。
func NewTencentEngine(cfg TencentConfig, player audio.PCMPlayer) (*TencentEngine, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("[tts] 腾讯云 TTS 需要 SecretID 和 SecretKey")
	}

	if cfg.VoiceType == 0 {
		cfg.VoiceType = 1001 // 默认音色：智瑜（女声）
	}
	if cfg.Region == "" {
		cfg.Region = "ap-guangzhou"
	}

	credential := common.NewCredential(cfg.SecretID, cfg.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tts.tencentcloudapi.com"

	client, err := tcvoice.NewClient(credential, cfg.Region, cpf)
	if err != nil {
		return nil, fmt.Errorf("[tts] 创建腾讯云 TTS 客户端失败: %w", err)
	}

	logger.Infof("[tts] 腾讯云 TTS 引擎已初始化 (voice=%d, region=%s)", cfg.VoiceType, cfg.Region)

	return &TencentEngine{
		client:    client,
		voiceType: cfg.VoiceType,
		speed:     cfg.Speed,
		player:    player,
	}, nil
}

// Speak 合成并播放文本。腾讯云返回 Base64 编码的 MP3。
func (e *TencentEngine) Speak(ctx context.Context, text string) error {
	logger.Debugf("[tts] 腾讯云 TTS: 正在合成 %d 个字符，音色=%d", len([]rune(text)), e.voiceType)

	request := tcvoice.NewTextToVoiceRequest()
	request.Text = common.StringPtr(text)
	request.SessionId = common.StringPtr(uuid.NewString())
	request.VoiceType = common.Int64Ptr(e.voiceType)
	request.Codec = common.StringPtr("mp3")
	// 腾讯云语速范围 [-2, 6]，0 为正常语速
	request.Speed = common.Float64Ptr(e.speed)
	request.Volume = common.Float64Ptr(5.0)

	response, err := e.client.TextToVoiceWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("[tts] 腾讯云 TTS 合成失败: %w", err)
	}
	if response.Response == nil || response.Response.Audio == nil {
		return fmt.Errorf("[tts] 腾讯云 TTS: 未返回音频数据")
	}

	mp3Data, err := base64.StdEncoding.DecodeString(*response.Response.Audio)
	if err != nil {
		return fmt.Errorf("[tts] Base64 解码失败: %w", err)
	}
	return playMP3(ctx, e.player, "腾讯云 TTS", mp3Data)
}
