package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// wavFormatFloat 是 WAVE_FORMAT_IEEE_FLOAT。
const wavFormatFloat = 3

// ErrUnsupportedContainer 表示无法识别的音频文件类型。
var ErrUnsupportedContainer = errors.New("不支持的音频文件类型")

// WriteWAV 将规范 PCM 写入 WAV 容器。
func WriteWAV(w io.WriteSeeker, pcm PCM16) error {
	if pcm.Channels < 1 || pcm.SampleRate <= 0 {
		return fmt.Errorf("%w: channels=%d rate=%d", ErrInvalidLayout, pcm.Channels, pcm.SampleRate)
	}

	encoder := wav.NewEncoder(w, pcm.SampleRate, 16, pcm.Channels, 1)
	buf := &audio.IntBuffer{
		Data:           Int16ToInts(pcm.Samples),
		Format:         &audio.Format{SampleRate: pcm.SampleRate, NumChannels: pcm.Channels},
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("写入 WAV 数据失败: %w", err)
	}
	return encoder.Close()
}

// WriteWAVFile 将规范 PCM 写入指定路径。
func WriteWAVFile(path string, pcm PCM16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 WAV 文件失败: %w", err)
	}
	if err := WriteWAV(f, pcm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile 按扩展名读取 WAV 或 MP3 文件，返回声明了原始表示的 Buffer。
func LoadFile(path string) (Buffer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		f, err := os.Open(path)
		if err != nil {
			return Buffer{}, fmt.Errorf("打开音频文件失败: %w", err)
		}
		defer f.Close()
		return ReadWAV(f)
	case ".mp3":
		data, err := os.ReadFile(path)
		if err != nil {
			return Buffer{}, fmt.Errorf("读取音频文件失败: %w", err)
		}
		return DecodeMP3(data)
	}
	return Buffer{}, fmt.Errorf("%w: %s", ErrUnsupportedContainer, path)
}

// ReadWAV 解码 WAV。8-bit 为 uint8，16-bit 为 int16，24/32-bit 整数为 int32，
// 32-bit 浮点为 float32。
func ReadWAV(r io.ReadSeeker) (Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Buffer{}, fmt.Errorf("%w: 无效的 WAV 文件", ErrUnsupportedContainer)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("解码 WAV 失败: %w", err)
	}

	b := Buffer{Channels: int(d.NumChans), SampleRate: int(d.SampleRate)}
	switch {
	case d.WavAudioFormat == wavFormatFloat && d.BitDepth == 32:
		b.Format = FormatF32
		b.Data = make([]byte, len(buf.Data)*4)
		for i, v := range buf.Data {
			binary.LittleEndian.PutUint32(b.Data[4*i:], uint32(int32(v)))
		}
	case d.BitDepth == 8:
		b.Format = FormatU8
		b.Data = make([]byte, len(buf.Data))
		for i, v := range buf.Data {
			b.Data[i] = byte(v)
		}
	case d.BitDepth == 16:
		b.Format = FormatS16
		b.Data = make([]byte, len(buf.Data)*2)
		for i, v := range buf.Data {
			binary.LittleEndian.PutUint16(b.Data[2*i:], uint16(int16(v)))
		}
	case d.BitDepth == 24 || d.BitDepth == 32:
		shift := uint(32 - d.BitDepth)
		b.Format = FormatS32
		b.Data = make([]byte, len(buf.Data)*4)
		for i, v := range buf.Data {
			binary.LittleEndian.PutUint32(b.Data[4*i:], uint32(int32(v)<<shift))
		}
	default:
		return Buffer{}, fmt.Errorf("%w: %d-bit WAV (format=%d)", ErrUnsupportedSampleFormat, d.BitDepth, d.WavAudioFormat)
	}
	return b, nil
}

// DecodeMP3 解码 MP3 数据。go-mp3 固定输出 16-bit 立体声。
func DecodeMP3(data []byte) (Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Buffer{}, fmt.Errorf("MP3 解码失败: %w", err)
	}
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return Buffer{}, fmt.Errorf("读取 PCM 数据失败: %w", err)
	}
	// 截掉不完整的尾部帧
	const bytesPerFrame = 4
	pcm = pcm[:len(pcm)/bytesPerFrame*bytesPerFrame]

	return Buffer{
		Format:     FormatS16,
		Channels:   2,
		SampleRate: decoder.SampleRate(),
		Data:       pcm,
	}, nil
}

// DownmixMono 将多声道 PCM 取平均混为单声道。
func DownmixMono(p PCM16) PCM16 {
	if p.Channels <= 1 {
		return p
	}
	frames := p.Frames()
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < p.Channels; c++ {
			sum += int(p.Samples[i*p.Channels+c])
		}
		out[i] = int16(math.Round(float64(sum) / float64(p.Channels)))
	}
	return PCM16{Samples: out, Channels: 1, SampleRate: p.SampleRate, Source: p.Source}
}
