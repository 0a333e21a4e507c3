package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid 表示配置项取值非法。
var ErrInvalid = errors.New("配置参数错误")

// 默认值。
const (
	DefaultEmotion       = 0.5
	DefaultPhonemeLength = 0.668
	DefaultSpeechSpeed   = 1.4
	DefaultGreeting      = "我姓云，单名一个堇字。有道是闻名不如见面，日后还请多多赏光，常来听戏。"
	DefaultPrompt        = "云堇 说："
)

// Config 是应用的顶层配置结构。
type Config struct {
	TTS      TTSConfig      `yaml:"tts"`
	Playback PlaybackConfig `yaml:"playback"`
	Log      LogConfig      `yaml:"log"`
	History  HistoryConfig  `yaml:"history"`
	// Greeting 为启动时朗读的问候语
	Greeting string `yaml:"greeting"`
	// Prompt 为交互模式的输入提示
	Prompt string `yaml:"prompt"`
}

// TTSConfig 语音合成配置。local 为 true 时使用本地语音引擎，否则使用 VITS 模型。
type TTSConfig struct {
	Local   bool          `yaml:"local"`
	Engine  string        `yaml:"engine"`
	Say     SayConfig     `yaml:"say"`
	Espeak  EspeakConfig  `yaml:"espeak"`
	Edge    EdgeConfig    `yaml:"edge"`
	Piper   PiperConfig   `yaml:"piper"`
	Tencent TencentConfig `yaml:"tencent"`

	ConfigPath       string  `yaml:"config_path"`
	ModelPath        string  `yaml:"model_path"`
	Language         string  `yaml:"language"`
	Emotion          float64 `yaml:"emotion"`
	PhonemeLength    float64 `yaml:"phoneme_length"`
	SpeechSpeed      float64 `yaml:"speech_speed"`
	MultiSpeakers    bool    `yaml:"multi_speakers"`
	MultiSpeakersSID int64   `yaml:"multi_speakers_sid"`
	CleanedInput     bool    `yaml:"cleaned_input"`
	KeepSpaces       bool    `yaml:"keep_spaces"`
	OnnxRuntimeLib   string  `yaml:"onnxruntime_lib"`
	TempDir          string  `yaml:"temp_dir"`
}

// SayConfig macOS say 配置。
type SayConfig struct {
	Voice string `yaml:"voice"`
	Rate  int    `yaml:"rate"`
}

// EspeakConfig espeak-ng 配置。
type EspeakConfig struct {
	Binary string `yaml:"binary"`
	Voice  string `yaml:"voice"`
	Speed  int    `yaml:"speed"`
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID  string  `yaml:"secret_id"`
	SecretKey string  `yaml:"secret_key"`
	VoiceType int64   `yaml:"voice_type"`
	Region    string  `yaml:"region"`
	Speed     float64 `yaml:"speed"`
}

// EdgeConfig Edge TTS 配置。
type EdgeConfig struct {
	Voice string `yaml:"voice"`
}

// PiperConfig Piper TTS 配置。
type PiperConfig struct {
	ModelPath string `yaml:"model_path"`
}

// PlaybackConfig 播放配置。Command 为空时使用 malgo 播放。
type PlaybackConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// HistoryConfig 朗读历史配置。
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${TENCENT_SECRET_ID}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.TTS.Engine == "" {
		cfg.TTS.Engine = "say"
	}
	if cfg.TTS.Edge.Voice == "" {
		cfg.TTS.Edge.Voice = "zh-CN-XiaoxiaoNeural"
	}
	if cfg.TTS.Emotion == 0 {
		cfg.TTS.Emotion = DefaultEmotion
	}
	if cfg.TTS.PhonemeLength == 0 {
		cfg.TTS.PhonemeLength = DefaultPhonemeLength
	}
	if cfg.TTS.SpeechSpeed == 0 {
		cfg.TTS.SpeechSpeed = DefaultSpeechSpeed
	}
	if !cfg.TTS.MultiSpeakers {
		cfg.TTS.MultiSpeakersSID = 0
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}

	cfg.TTS.ConfigPath = expandHome(cfg.TTS.ConfigPath)
	cfg.TTS.ModelPath = expandHome(cfg.TTS.ModelPath)
	cfg.TTS.Piper.ModelPath = expandHome(cfg.TTS.Piper.ModelPath)
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.History.DBPath = expandHome(cfg.History.DBPath)

	// 去除密钥两端可能的空白（环境变量展开后常见）
	cfg.TTS.Tencent.SecretID = strings.TrimSpace(cfg.TTS.Tencent.SecretID)
	cfg.TTS.Tencent.SecretKey = strings.TrimSpace(cfg.TTS.Tencent.SecretKey)
}

// expandHome 展开 ~/ 前缀，Go 不会自动处理。
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return path
	}
	return home + path[1:]
}

func invalid(key, format string, args ...interface{}) error {
	return fmt.Errorf("%w: \"%s\"%s", ErrInvalid, key, fmt.Sprintf(format, args...))
}

// Validate 检查配置取值，返回第一个错误。
func (c *Config) Validate() error {
	t := &c.TTS
	if t.Local {
		return t.validateEngine()
	}

	if t.ConfigPath == "" {
		return invalid("tts.config_path", "参数错误！配置文件路径必须为非空字符串。")
	}
	if !isFile(t.ConfigPath) {
		return invalid("tts.config_path", "配置文件路径不存在！")
	}
	if t.ModelPath == "" {
		return invalid("tts.model_path", "参数错误！模型文件路径必须为非空字符串。")
	}
	if !isFile(t.ModelPath) {
		return invalid("tts.model_path", "模型文件路径不存在！")
	}
	if t.Emotion < 0.1 || t.Emotion > 1 {
		return invalid("tts.emotion", "参数错误！感情变化程度参数必须为处在[0.1, 1]区间内的数值。")
	}
	if t.PhonemeLength < 0.1 || t.PhonemeLength > 1 {
		return invalid("tts.phoneme_length", "参数错误！音素发音长度参数必须为处在[0.1, 1]区间内的数值。")
	}
	if t.SpeechSpeed < 0.1 || t.SpeechSpeed > 2 {
		return invalid("tts.speech_speed", "参数错误！语速参数必须为处在[0.1, 2]区间内的数值。")
	}
	if t.MultiSpeakers && t.MultiSpeakersSID < 0 {
		return invalid("tts.multi_speakers_sid", "参数错误！多人模型ID必须为大于等于0的整数。")
	}
	return nil
}

func (t *TTSConfig) validateEngine() error {
	switch t.Engine {
	case "say", "espeak", "edge":
		return nil
	case "piper":
		if t.Piper.ModelPath == "" {
			return invalid("tts.piper.model_path", "参数错误！piper 引擎需要模型文件路径。")
		}
		return nil
	case "tencent":
		if t.Tencent.SecretID == "" || t.Tencent.SecretKey == "" {
			return invalid("tts.tencent", "参数错误！腾讯云 TTS 需要 secret_id 和 secret_key。")
		}
		return nil
	}
	return invalid("tts.engine", "参数错误！未知的本地语音引擎 %q。", t.Engine)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
