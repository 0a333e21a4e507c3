package commands

import (
	"fmt"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/config"
	"github.com/iabetor/ttsbuddy/internal/history"
	"github.com/iabetor/ttsbuddy/internal/logger"
	"github.com/iabetor/ttsbuddy/internal/tts"
)

// app 持有一次运行中创建的资源。
type app struct {
	cfg     *config.Config
	synth   *tts.Synthesizer
	history *history.Store
	malgo   *audio.MalgoPlayer
}

func (a *app) pcmPlayer() (*audio.MalgoPlayer, error) {
	if a.malgo != nil {
		return a.malgo, nil
	}
	p, err := audio.NewMalgoPlayer()
	if err != nil {
		return nil, err
	}
	a.malgo = p
	return p, nil
}

func (a *app) filePlayer() (audio.Player, error) {
	if a.cfg.Playback.Command != "" {
		return audio.NewCommandPlayer(a.cfg.Playback.Command, a.cfg.Playback.Args...), nil
	}
	p, err := a.pcmPlayer()
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a *app) speaker() (tts.Speaker, error) {
	t := a.cfg.TTS
	switch t.Engine {
	case "say":
		return tts.NewSayEngine(t.Say.Voice, t.Say.Rate), nil
	case "espeak":
		return tts.NewEspeakEngine(t.Espeak.Binary, t.Espeak.Voice, t.Espeak.Speed), nil
	}

	player, err := a.pcmPlayer()
	if err != nil {
		return nil, err
	}
	switch t.Engine {
	case "edge":
		return tts.NewEdgeEngine(t.Edge.Voice, player), nil
	case "piper":
		return tts.NewPiperEngine(t.Piper.ModelPath, player), nil
	case "tencent":
		return tts.NewTencentEngine(tts.TencentConfig{
			SecretID:  t.Tencent.SecretID,
			SecretKey: t.Tencent.SecretKey,
			VoiceType: t.Tencent.VoiceType,
			Region:    t.Tencent.Region,
			Speed:     t.Tencent.Speed,
		}, player)
	}
	return nil, fmt.Errorf("未知的本地语音引擎: %s", t.Engine)
}

// newApp 按配置创建合成会话。
func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	var opts []tts.Option
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.DBPath)
		if err != nil {
			return nil, err
		}
		a.history = store
		opts = append(opts, tts.WithHistory(store))
	}

	var backend tts.Backend
	if cfg.TTS.Local {
		sp, err := a.speaker()
		if err != nil {
			a.Close()
			return nil, err
		}
		backend = tts.LocalEngine{Speaker: sp}
	} else {
		player, err := a.filePlayer()
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, tts.WithPlayer(player), tts.WithTempDir(cfg.TTS.TempDir))
		backend = tts.ModelBacked{
			ConfigPath:    cfg.TTS.ConfigPath,
			ModelPath:     cfg.TTS.ModelPath,
			Language:      cfg.TTS.Language,
			Emotion:       cfg.TTS.Emotion,
			PhonemeLength: cfg.TTS.PhonemeLength,
			SpeechSpeed:   cfg.TTS.SpeechSpeed,
			MultiSpeaker:  cfg.TTS.MultiSpeakers,
			SpeakerID:     cfg.TTS.MultiSpeakersSID,
			CleanedInput:  cfg.TTS.CleanedInput,
			KeepSpaces:    cfg.TTS.KeepSpaces,
			LibraryPath:   cfg.TTS.OnnxRuntimeLib,
		}
	}

	synth, err := tts.New(backend, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.synth = synth
	logger.Debugf("[main] 合成会话状态: %s", synth.State())
	return a, nil
}

// Close 释放资源。
func (a *app) Close() {
	if a.synth != nil {
		if err := a.synth.Close(); err != nil {
			logger.Warnf("[main] 关闭模型失败: %v", err)
		}
	}
	if a.malgo != nil {
		a.malgo.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
}

// openApp 读取配置并创建会话。
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg)
}
