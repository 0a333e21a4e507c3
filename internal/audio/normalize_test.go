package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/x448/float16"
)

func assertSamples(t *testing.T, got PCM16, want []int16) {
	t.Helper()
	if len(got.Samples) != len(want) {
		t.Fatalf("length = %d, want %d (%v)", len(got.Samples), len(want), got.Samples)
	}
	for i := range want {
		if got.Samples[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got.Samples[i], want[i])
		}
	}
}

func TestNormalize_Int16PassThrough(t *testing.T) {
	in := []int16{0, 1, -1, math.MaxInt16, math.MinInt16, 1234}
	out, err := Normalize(FromInt16(in, 2, 22050))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	assertSamples(t, out, in)
	if out.Converted() {
		t.Error("int16 input should not be marked as converted")
	}
	if out.Channels != 2 || out.SampleRate != 22050 {
		t.Errorf("layout changed: channels=%d rate=%d", out.Channels, out.SampleRate)
	}

	again, err := Normalize(FromInt16(out.Samples, out.Channels, out.SampleRate))
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, again, in)
}

func TestNormalize_Float32PeakScaling(t *testing.T) {
	out, err := Normalize(FromFloat32([]float32{0.5, -0.25, 0, 0.125}, 1, 22050))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	// 峰值 0.5 → 32767
	assertSamples(t, out, []int16{32767, -16383, 0, 8191})
	if !out.Converted() || out.Source != FormatF32 {
		t.Errorf("expected conversion from float32, got source %s", out.Source)
	}
}

func TestNormalize_Float64AndFloat16(t *testing.T) {
	out, err := Normalize(FromFloat64([]float64{-2, 1, 0}, 1, 16000))
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, out, []int16{-32767, 16383, 0})

	half := []float16.Float16{float16.Fromfloat32(1), float16.Fromfloat32(-0.5)}
	out, err = Normalize(FromFloat16(half, 1, 16000))
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, out, []int16{32767, -16383})
}

func TestNormalize_FloatAllZero(t *testing.T) {
	for _, b := range []Buffer{
		FromFloat32(make([]float32, 8), 1, 22050),
		FromFloat64(make([]float64, 8), 2, 22050),
		FromFloat16(make([]float16.Float16, 8), 1, 22050),
	} {
		out, err := Normalize(b)
		if err != nil {
			t.Fatalf("%s: Normalize failed: %v", b.Format, err)
		}
		assertSamples(t, out, make([]int16, 8))
	}
}

func TestNormalize_Int32(t *testing.T) {
	out, err := Normalize(FromInt32([]int32{math.MaxInt32, math.MinInt32, 65538, -131076, 65537}, 1, 8000))
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, out, []int16{32767, -32767, 1, -2, 0})
}

func TestNormalize_Uint16(t *testing.T) {
	out, err := Normalize(FromUint16([]uint16{0, 32768, 65535, 1}, 1, 8000))
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, out, []int16{-32768, 0, 32767, -32767})
}

func TestNormalize_Uint8(t *testing.T) {
	out, err := Normalize(FromUint8([]uint8{0, 128, 255}, 1, 8000))
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, out, []int16{-32768, 128, 32767})
}

func TestNormalize_Unsupported(t *testing.T) {
	for _, f := range []Format{FormatS8, FormatU32, FormatS64, FormatUnknown, Format(99)} {
		_, err := Normalize(Buffer{Format: f, Channels: 1, SampleRate: 8000, Data: make([]byte, 8)})
		if !errors.Is(err, ErrUnsupportedSampleFormat) {
			t.Errorf("%s: expected ErrUnsupportedSampleFormat, got %v", f, err)
		}
	}
}

func TestNormalize_InvalidLayout(t *testing.T) {
	tests := []Buffer{
		{Format: FormatS16, Channels: 0, Data: make([]byte, 4)},
		{Format: FormatS16, Channels: 1, Data: make([]byte, 3)},
		{Format: FormatS16, Channels: 2, Data: make([]byte, 6)},
	}
	for i, b := range tests {
		if _, err := Normalize(b); !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("case %d: expected ErrInvalidLayout, got %v", i, err)
		}
	}
}

func TestPCM16_FramesAndDuration(t *testing.T) {
	p := PCM16{Samples: make([]int16, 44100), Channels: 2, SampleRate: 22050}
	if p.Frames() != 22050 {
		t.Errorf("Frames() = %d", p.Frames())
	}
	if p.Duration().Seconds() != 1 {
		t.Errorf("Duration() = %v", p.Duration())
	}
}

func TestFormat_String(t *testing.T) {
	if FormatF32.String() != "float32" || Format(42).String() != "unknown" {
		t.Errorf("unexpected names: %s %s", FormatF32, Format(42))
	}
}
