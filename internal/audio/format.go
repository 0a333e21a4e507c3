package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/x448/float16"
)

// Format 是 PCM 样本的数值表示。
type Format int

const (
	FormatUnknown Format = iota
	FormatU8
	FormatS8
	FormatU16
	FormatS16
	FormatU32
	FormatS32
	FormatS64
	FormatF16
	FormatF32
	FormatF64
)

var formatNames = [...]string{
	"unknown", "uint8", "int8", "uint16", "int16", "uint32", "int32", "int64", "float16", "float32", "float64",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// Width 返回单个样本的字节数，未知格式返回 0。
func (f Format) Width() int {
	switch f {
	case FormatU8, FormatS8:
		return 1
	case FormatU16, FormatS16, FormatF16:
		return 2
	case FormatU32, FormatS32, FormatF32:
		return 4
	case FormatS64, FormatF64:
		return 8
	}
	return 0
}

// IsFloat 判断是否为浮点表示。
func (f Format) IsFloat() bool {
	return f == FormatF16 || f == FormatF32 || f == FormatF64
}

// Buffer 是带有数值表示声明的交错 PCM 数据（小端）。
type Buffer struct {
	Format     Format
	Channels   int
	SampleRate int
	Data       []byte
}

// PCM16 是规范化后的 16-bit 有符号 PCM。
type PCM16 struct {
	Samples    []int16
	Channels   int
	SampleRate int
	// Source 记录转换前的表示
	Source Format
}

// Converted 报告是否经过了有损转换。
func (p PCM16) Converted() bool {
	return p.Source != FormatS16
}

// Frames 返回帧数。
func (p PCM16) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Duration 返回音频时长。
func (p PCM16) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// FromFloat32 用 float32 样本构造 Buffer，模型输出走这条路径。
func FromFloat32(samples []float32, channels, sampleRate int) Buffer {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(s))
	}
	return Buffer{Format: FormatF32, Channels: channels, SampleRate: sampleRate, Data: data}
}

// FromFloat64 用 float64 样本构造 Buffer。
func FromFloat64(samples []float64, channels, sampleRate int) Buffer {
	data := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(data[8*i:], math.Float64bits(s))
	}
	return Buffer{Format: FormatF64, Channels: channels, SampleRate: sampleRate, Data: data}
}

// FromFloat16 用半精度样本构造 Buffer。
func FromFloat16(samples []float16.Float16, channels, sampleRate int) Buffer {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], s.Bits())
	}
	return Buffer{Format: FormatF16, Channels: channels, SampleRate: sampleRate, Data: data}
}

// FromInt16 用 int16 样本构造 Buffer。
func FromInt16(samples []int16, channels, sampleRate int) Buffer {
	return Buffer{Format: FormatS16, Channels: channels, SampleRate: sampleRate, Data: Int16ToBytes(samples)}
}

// FromInt32 用 int32 样本构造 Buffer。
func FromInt32(samples []int32, channels, sampleRate int) Buffer {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[4*i:], uint32(s))
	}
	return Buffer{Format: FormatS32, Channels: channels, SampleRate: sampleRate, Data: data}
}

// FromUint16 用 uint16 样本构造 Buffer。
func FromUint16(samples []uint16, channels, sampleRate int) Buffer {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], s)
	}
	return Buffer{Format: FormatU16, Channels: channels, SampleRate: sampleRate, Data: data}
}

// FromUint8 用 uint8 样本构造 Buffer。
func FromUint8(samples []uint8, channels, sampleRate int) Buffer {
	data := make([]byte, len(samples))
	copy(data, samples)
	return Buffer{Format: FormatU8, Channels: channels, SampleRate: sampleRate, Data: data}
}
