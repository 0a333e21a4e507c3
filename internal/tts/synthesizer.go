package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/history"
	"github.com/iabetor/ttsbuddy/internal/logger"
	"github.com/iabetor/ttsbuddy/internal/text"
	"github.com/iabetor/ttsbuddy/internal/vits"
)

// ErrEmptySequence 表示编码后没有任何可推理的符号。
var ErrEmptySequence = errors.New("编码后的符号序列为空")

// 控制参数默认值。
const (
	DefaultEmotion       = 0.5
	DefaultPhonemeLength = 0.668
	DefaultSpeechSpeed   = 1.4
)

// Backend 是合成后端：LocalEngine 或 ModelBacked，初始化后不可切换。
type Backend interface {
	backendName() string
}

// LocalEngine 使用本地语音引擎直接朗读，不产生波形文件。
type LocalEngine struct {
	Speaker Speaker
}

func (LocalEngine) backendName() string { return "local" }

// ModelBacked 使用 VITS 模型合成。
type ModelBacked struct {
	ConfigPath string
	ModelPath  string
	// Language 为语言标记代码（ZH、JA 等），未识别时不加标记
	Language      string
	Emotion       float64 // noise_scale
	PhonemeLength float64 // noise_scale_w
	SpeechSpeed   float64 // length_scale
	MultiSpeaker  bool
	SpeakerID     int64
	// CleanedInput 表示输入已是符号文本，跳过清洗器与语言标记
	CleanedInput bool
	// KeepSpaces 保留输入中的空格
	KeepSpaces  bool
	LibraryPath string
}

func (ModelBacked) backendName() string { return "model" }

// Model 是声学模型与声码器的黑盒。
type Model interface {
	Infer(seq []int64, p vits.Params) ([]float32, error)
	Close() error
}

// ModelLoader 按词表与说话人信息打开模型。
type ModelLoader func(path string, opts vits.Options) (Model, error)

// Recorder 记录朗读历史。
type Recorder interface {
	Record(ctx context.Context, u history.Utterance) (history.Utterance, error)
}

func openVITS(path string, opts vits.Options) (Model, error) {
	m, err := vits.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Option 配置 Synthesizer。
type Option func(*Synthesizer)

// WithModelLoader 替换模型加载器。
func WithModelLoader(l ModelLoader) Option {
	return func(s *Synthesizer) { s.loader = l }
}

// WithPlayer 设置模型路径的 WAV 播放器。
func WithPlayer(p audio.Player) Option {
	return func(s *Synthesizer) { s.player = p }
}

// WithRegistry 替换清洗器注册表。
func WithRegistry(r *text.Registry) Option {
	return func(s *Synthesizer) { s.registry = r }
}

// WithHistory 挂载朗读历史。
func WithHistory(r Recorder) Option {
	return func(s *Synthesizer) { s.history = r }
}

// WithTempDir 设置临时 WAV 文件目录。
func WithTempDir(dir string) Option {
	return func(s *Synthesizer) { s.tempDir = dir }
}

// Synthesizer 是一次初始化得到的合成会话。
type Synthesizer struct {
	backend Backend
	state   *StateMachine

	// 本地引擎
	speaker Speaker

	// 模型
	cfg      ModelBacked
	hparams  *vits.HParams
	vocab    *text.Vocabulary
	model    Model
	registry *text.Registry
	loader   ModelLoader
	player   audio.Player
	packager *audio.Packager
	tempDir  string

	history Recorder
}

// New 按后端完成初始化。任何失败都会使会话进入 Failed 并返回错误。
func New(backend Backend, opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		backend:  backend,
		state:    NewStateMachine(),
		registry: text.DefaultRegistry(),
		loader:   openVITS,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	switch b := backend.(type) {
	case LocalEngine:
		err = s.initLocal(b)
	case ModelBacked:
		err = s.initModel(b)
	default:
		err = fmt.Errorf("[tts] 未知的后端类型 %T", backend)
	}
	if err != nil {
		s.state.Transition(StateFailed)
		return nil, err
	}
	return s, nil
}

func (s *Synthesizer) initLocal(b LocalEngine) error {
	if b.Speaker == nil {
		return fmt.Errorf("[tts] 本地引擎未配置")
	}
	s.speaker = b.Speaker
	s.state.Transition(StateLocalEngineReady)
	logger.Infof("[tts] 使用本地语音引擎")
	return nil
}

func (s *Synthesizer) initModel(b ModelBacked) error {
	applyDefaults(&b)
	if err := checkKnobs(b); err != nil {
		return err
	}
	s.cfg = b

	hp, err := vits.LoadHParams(b.ConfigPath)
	if err != nil {
		return fmt.Errorf("[tts] %w", err)
	}
	s.hparams = hp
	s.state.Transition(StateModelLoaded)

	s.vocab = text.NewVocabulary(hp.Profile())
	if s.vocab.Fallback() {
		logger.Warnf("[tts] 未知的符号方案 %q，使用默认方案 %s", hp.Profile(), text.DefaultProfile)
	}
	if !b.CleanedInput {
		if err := s.registry.Validate(hp.Data.TextCleaners); err != nil {
			return fmt.Errorf("[tts] %w", err)
		}
	}
	if hp.Data.SamplingRate != 0 && hp.Data.SamplingRate != vits.SampleRate {
		logger.Warnf("[tts] 模型配置采样率为 %d Hz，输出按 %d Hz 处理", hp.Data.SamplingRate, vits.SampleRate)
	}

	speakers := hp.SpeakerCount(b.MultiSpeaker)
	if b.MultiSpeaker {
		if speakers <= 0 {
			return fmt.Errorf("[tts] 多说话人模式需要 data.n_speakers > 0")
		}
		if b.SpeakerID < 0 || b.SpeakerID >= int64(speakers) {
			return fmt.Errorf("[tts] 说话人 id %d 超出 [0, %d)", b.SpeakerID, speakers)
		}
	}

	model, err := s.loader(b.ModelPath, vits.Options{
		VocabSize:   s.vocab.Len(),
		Speakers:    speakers,
		LibraryPath: b.LibraryPath,
	})
	if err != nil {
		return fmt.Errorf("[tts] %w", err)
	}
	s.model = model
	s.packager = audio.NewPackager(s.tempDir, s.player)
	s.state.Transition(StateReady)

	logger.Infof("[tts] 模型就绪: profile=%s symbols=%d language=%q", s.vocab.Profile(), s.vocab.Len(), b.Language)
	if name := hp.SpeakerName(int(b.SpeakerID)); b.MultiSpeaker && name != "" {
		logger.Infof("[tts] 说话人: %d (%s)", b.SpeakerID, name)
	}
	return nil
}

func applyDefaults(b *ModelBacked) {
	if b.Emotion == 0 {
		b.Emotion = DefaultEmotion
	}
	if b.PhonemeLength == 0 {
		b.PhonemeLength = DefaultPhonemeLength
	}
	if b.SpeechSpeed == 0 {
		b.SpeechSpeed = DefaultSpeechSpeed
	}
}

func checkKnobs(b ModelBacked) error {
	if b.Emotion < 0.1 || b.Emotion > 1.0 {
		return fmt.Errorf("[tts] emotion 必须在 [0.1, 1.0] 之间: %v", b.Emotion)
	}
	if b.PhonemeLength < 0.1 || b.PhonemeLength > 1.0 {
		return fmt.Errorf("[tts] phoneme_length 必须在 [0.1, 1.0] 之间: %v", b.PhonemeLength)
	}
	if b.SpeechSpeed < 0.1 || b.SpeechSpeed > 2.0 {
		return fmt.Errorf("[tts] speech_speed 必须在 [0.1, 2.0] 之间: %v", b.SpeechSpeed)
	}
	return nil
}

// State 返回会话状态。
func (s *Synthesizer) State() State {
	return s.state.Current()
}

// Vocabulary 返回模型词表，本地引擎返回 nil。
func (s *Synthesizer) Vocabulary() *text.Vocabulary {
	return s.vocab
}

// PrepareInput 规整模型输入：换行变空格，去掉回车；keepSpaces 为 false 时去掉全部空格。
func PrepareInput(input string, keepSpaces bool) string {
	input = strings.ReplaceAll(input, "\n", " ")
	input = strings.ReplaceAll(input, "\r", "")
	if !keepSpaces {
		input = strings.ReplaceAll(input, " ", "")
	}
	return input
}

// Encode 把输入文本转换为送入模型的符号序列（含 add_blank 插空）。
func (s *Synthesizer) Encode(input string) ([]int64, error) {
	if s.vocab == nil {
		return nil, fmt.Errorf("[tts] 本地引擎不支持编码")
	}

	prepared := PrepareInput(input, s.cfg.KeepSpaces)

	var seq []int64
	if s.cfg.CleanedInput {
		seq = s.vocab.EncodeCleaned(prepared)
	} else {
		tagged := text.Tag(prepared, s.vocab.Profile(), s.cfg.Language)
		var err error
		seq, err = s.vocab.Encode(tagged, s.hparams.Data.TextCleaners, s.registry)
		if err != nil {
			return nil, fmt.Errorf("[tts] %w", err)
		}
	}
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}
	if s.hparams.Data.AddBlank {
		seq = text.Intersperse(seq, 0)
	}
	return seq, nil
}

// Render 合成文本，返回规范化后的 16-bit 单声道 PCM。
func (s *Synthesizer) Render(ctx context.Context, input string) (audio.PCM16, error) {
	if s.model == nil {
		return audio.PCM16{}, fmt.Errorf("[tts] 本地引擎不产生波形")
	}
	if err := ctx.Err(); err != nil {
		return audio.PCM16{}, err
	}

	seq, err := s.Encode(input)
	if err != nil {
		return audio.PCM16{}, err
	}
	logger.Debugf("[tts] 编码得到 %d 个符号", len(seq))

	var sid int64
	if s.cfg.MultiSpeaker {
		sid = s.cfg.SpeakerID
	}
	wave, err := s.model.Infer(seq, vits.Params{
		SpeakerID:   sid,
		NoiseScale:  float32(s.cfg.Emotion),
		NoiseScaleW: float32(s.cfg.PhonemeLength),
		LengthScale: float32(s.cfg.SpeechSpeed),
	})
	if err != nil {
		return audio.PCM16{}, fmt.Errorf("[tts] %w", err)
	}

	pcm, err := audio.Normalize(audio.FromFloat32(wave, 1, vits.SampleRate))
	if err != nil {
		return audio.PCM16{}, fmt.Errorf("[tts] %w", err)
	}
	return pcm, nil
}

// Synthesize 合成文本并写入临时 WAV 文件，返回其绝对路径。
// 本地引擎不产生文件，返回空路径。
func (s *Synthesizer) Synthesize(ctx context.Context, input string) (string, error) {
	path, _, err := s.synthesize(ctx, input)
	return path, err
}

func (s *Synthesizer) synthesize(ctx context.Context, input string) (string, audio.PCM16, error) {
	if s.model == nil {
		return "", audio.PCM16{}, nil
	}
	pcm, err := s.Render(ctx, input)
	if err != nil {
		return "", pcm, err
	}
	path, err := s.packager.Package(pcm)
	if err != nil {
		return "", pcm, fmt.Errorf("[tts] %w", err)
	}
	return path, pcm, nil
}

type speakOptions struct {
	w    io.Writer
	text string
	echo bool
}

// SpeakOption 配置单次朗读。
type SpeakOption func(*speakOptions)

// WithAnnounce 在播放前把输入文本写到 w。
func WithAnnounce(w io.Writer) SpeakOption {
	return func(o *speakOptions) {
		o.w = w
		o.echo = true
	}
}

// WithAnnounceText 在播放前把 text 写到 w。
func WithAnnounceText(w io.Writer, text string) SpeakOption {
	return func(o *speakOptions) {
		o.w = w
		o.text = text
		o.echo = false
	}
}

func (o speakOptions) announce(input string) {
	if o.w == nil {
		return
	}
	if o.echo {
		fmt.Fprintln(o.w, input)
	} else {
		fmt.Fprintln(o.w, o.text)
	}
}

// Speak 朗读文本并阻塞到播放结束。
// 模型路径下临时 WAV 无论播放成功与否都会被删除。
func (s *Synthesizer) Speak(ctx context.Context, input string, opts ...SpeakOption) error {
	var o speakOptions
	for _, opt := range opts {
		opt(&o)
	}

	u := history.Utterance{Text: input, Backend: s.backend.backendName()}

	if s.speaker != nil {
		o.announce(input)
		if err := s.speaker.Speak(ctx, input); err != nil {
			return err
		}
		s.record(ctx, u)
		return nil
	}

	path, pcm, err := s.synthesize(ctx, input)
	if err != nil {
		return err
	}
	o.announce(input)
	if err := s.packager.PlayAndRemove(ctx, path); err != nil {
		return err
	}

	u.Language = s.cfg.Language
	u.Samples = len(pcm.Samples)
	u.SampleRate = pcm.SampleRate
	u.Duration = pcm.Duration()
	s.record(ctx, u)
	return nil
}

func (s *Synthesizer) record(ctx context.Context, u history.Utterance) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, u); err != nil {
		logger.Warnf("[tts] 记录朗读历史失败: %v", err)
	}
}

// Close 释放模型资源。
func (s *Synthesizer) Close() error {
	if s.model != nil {
		return s.model.Close()
	}
	return nil
}
