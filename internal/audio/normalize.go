package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

var (
	// ErrUnsupportedSampleFormat 表示无法自动转换为 16-bit 的样本表示。
	ErrUnsupportedSampleFormat = errors.New("不支持的音频样本格式")
	// ErrInvalidLayout 表示声道数或数据长度不合法。
	ErrInvalidLayout = errors.New("音频数据布局不合法")
)

// Normalize 把任意表示的 PCM 转换为规范的 16-bit 有符号 PCM。
// 声道数和采样率保持不变。非 int16 输入会记录一条警告。
func Normalize(b Buffer) (PCM16, error) {
	switch b.Format {
	case FormatS16, FormatF16, FormatF32, FormatF64, FormatS32, FormatU16, FormatU8:
	default:
		return PCM16{}, fmt.Errorf("%w: 无法将 %s 自动转换为 16-bit int 格式", ErrUnsupportedSampleFormat, b.Format)
	}

	width := b.Format.Width()
	if b.Channels < 1 {
		return PCM16{}, fmt.Errorf("%w: 声道数 %d", ErrInvalidLayout, b.Channels)
	}
	if len(b.Data)%width != 0 || (len(b.Data)/width)%b.Channels != 0 {
		return PCM16{}, fmt.Errorf("%w: %d 字节无法按 %s × %d 声道切分", ErrInvalidLayout, len(b.Data), b.Format, b.Channels)
	}

	if b.Format != FormatS16 {
		logger.Warnf("[audio] 尝试自动将音频从 %s 转换为 16-bit int 格式", b.Format)
	}

	n := len(b.Data) / width
	out := make([]int16, n)

	switch b.Format {
	case FormatS16:
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(b.Data[2*i:]))
		}
	case FormatF16, FormatF32, FormatF64:
		samples := decodeFloats(b)
		peak := 0.0
		for _, s := range samples {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
		// 全零缓冲直接输出静音，避免除以零
		if peak > 0 {
			for i, s := range samples {
				out[i] = int16(s / peak * 32767)
			}
		}
	case FormatS32:
		for i := range out {
			s := int32(binary.LittleEndian.Uint32(b.Data[4*i:]))
			out[i] = int16(float64(s) / 65538)
		}
	case FormatU16:
		for i := range out {
			s := binary.LittleEndian.Uint16(b.Data[2*i:])
			out[i] = int16(int32(s) - 32768)
		}
	case FormatU8:
		for i := range out {
			out[i] = int16(int32(b.Data[i])*257 - 32768)
		}
	}

	return PCM16{
		Samples:    out,
		Channels:   b.Channels,
		SampleRate: b.SampleRate,
		Source:     b.Format,
	}, nil
}

// decodeFloats 按 float64 解码浮点样本。
func decodeFloats(b Buffer) []float64 {
	width := b.Format.Width()
	out := make([]float64, len(b.Data)/width)
	for i := range out {
		p := b.Data[i*width:]
		switch b.Format {
		case FormatF16:
			out[i] = float64(float16.Frombits(binary.LittleEndian.Uint16(p)).Float32())
		case FormatF32:
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
		case FormatF64:
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(p))
		}
	}
	return out
}
