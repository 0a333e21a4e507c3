package vits

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// ErrInvalidInput 表示输入序列或说话人 id 超出模型范围。
var ErrInvalidInput = errors.New("模型输入无效")

// Options 描述打开模型所需的形状信息。
type Options struct {
	// VocabSize 为词表长度，输入 id 必须小于它
	VocabSize int
	// Speakers 为说话人数量，0 表示单说话人
	Speakers int
	// LibraryPath 为 onnxruntime 动态库路径，为空时读取 ONNXRUNTIME_LIB_PATH
	LibraryPath string
}

// Params 是单次推理的控制参数。
type Params struct {
	SpeakerID   int64
	NoiseScale  float32
	NoiseScaleW float32
	LengthScale float32
}

// Model 封装 VITS 生成器的 ONNX 导出。
type Model struct {
	session *ort.DynamicAdvancedSession
	opts    Options
	mu      sync.Mutex
}

var (
	envOnce sync.Once
	envErr  error
)

func initEnvironment(libPath string) error {
	envOnce.Do(func() {
		if libPath == "" {
			libPath = os.Getenv("ONNXRUNTIME_LIB_PATH")
		}
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			envErr = fmt.Errorf("初始化 ONNX Runtime 失败: %w (可设置 ONNXRUNTIME_LIB_PATH)", err)
		}
	})
	return envErr
}

// Open 加载 ONNX 模型。
func Open(path string, opts Options) (*Model, error) {
	if opts.VocabSize <= 0 {
		return nil, fmt.Errorf("词表长度无效: %d", opts.VocabSize)
	}
	if err := initEnvironment(opts.LibraryPath); err != nil {
		return nil, err
	}

	session, err := ort.NewDynamicAdvancedSession(path, inputNames(opts.Speakers), []string{"output"}, nil)
	if err != nil {
		return nil, fmt.Errorf("加载模型失败: %w", err)
	}

	logger.Infof("[vits] 模型已加载: %s (symbols=%d, speakers=%d)", path, opts.VocabSize, opts.Speakers)
	return &Model{session: session, opts: opts}, nil
}

func inputNames(speakers int) []string {
	names := []string{"input", "input_lengths", "scales"}
	if speakers > 0 {
		names = append(names, "sid")
	}
	return names
}

// Validate 检查输入序列与说话人 id 是否在模型范围内。
func (o Options) Validate(seq []int64, speakerID int64) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: 空序列", ErrInvalidInput)
	}
	for i, id := range seq {
		if id < 0 || id >= int64(o.VocabSize) {
			return fmt.Errorf("%w: 位置 %d 的符号 id %d 超出词表 [0, %d)", ErrInvalidInput, i, id, o.VocabSize)
		}
	}
	if o.Speakers > 0 && (speakerID < 0 || speakerID >= int64(o.Speakers)) {
		return fmt.Errorf("%w: 说话人 id %d 超出 [0, %d)", ErrInvalidInput, speakerID, o.Speakers)
	}
	return nil
}

// scales 按导出模型约定的顺序打包控制参数。
func (p Params) scales() []float32 {
	return []float32{p.NoiseScale, p.LengthScale, p.NoiseScaleW}
}

// Infer 对符号序列推理，返回 22050 Hz 单声道 float32 波形。
func (m *Model) Infer(seq []int64, p Params) ([]float32, error) {
	if err := m.opts.Validate(seq, p.SpeakerID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, fmt.Errorf("模型已关闭")
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(seq))), seq)
	if err != nil {
		return nil, fmt.Errorf("创建输入张量失败: %w", err)
	}
	defer input.Destroy()

	lengths, err := ort.NewTensor(ort.NewShape(1), []int64{int64(len(seq))})
	if err != nil {
		return nil, fmt.Errorf("创建长度张量失败: %w", err)
	}
	defer lengths.Destroy()

	scales, err := ort.NewTensor(ort.NewShape(3), p.scales())
	if err != nil {
		return nil, fmt.Errorf("创建参数张量失败: %w", err)
	}
	defer scales.Destroy()

	inputs := []ort.Value{input, lengths, scales}
	if m.opts.Speakers > 0 {
		sid, err := ort.NewTensor(ort.NewShape(1), []int64{p.SpeakerID})
		if err != nil {
			return nil, fmt.Errorf("创建说话人张量失败: %w", err)
		}
		defer sid.Destroy()
		inputs = append(inputs, sid)
	}

	outputs := []ort.Value{nil}
	if err := m.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("模型推理失败: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		if outputs[0] != nil {
			outputs[0].Destroy()
		}
		return nil, fmt.Errorf("模型输出类型不是 float32")
	}
	defer out.Destroy()

	data := out.GetData()
	wave := make([]float32, len(data))
	copy(wave, data)

	logger.Debugf("[vits] 推理完成: %d 个符号 → %d 个样本", len(seq), len(wave))
	return wave, nil
}

// Close 释放推理会话。
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
