package vits

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `{
  "train": {"segment_size": 8192, "learning_rate": 2e-4},
  "data": {
    "text_cleaners": ["zh_ja_mixture_cleaners"],
    "sampling_rate": 22050,
    "filter_length": 1024,
    "hop_length": 256,
    "add_blank": true,
    "n_speakers": 3
  },
  "model": {"inter_channels": 192, "hidden_channels": 192},
  "speakers": ["yunjin", "paimon", "nahida"]
}`

func TestLoadHParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatal(err)
	}

	hp, err := LoadHParams(path)
	if err != nil {
		t.Fatalf("LoadHParams failed: %v", err)
	}
	if hp.Profile() != "zh_ja_mixture_cleaners" {
		t.Errorf("Profile() = %q", hp.Profile())
	}
	if !hp.Data.AddBlank || hp.Data.SamplingRate != 22050 {
		t.Errorf("unexpected data params: %+v", hp.Data)
	}
	if hp.SpecChannels() != 513 {
		t.Errorf("SpecChannels() = %d, want 513", hp.SpecChannels())
	}
	if hp.SegmentFrames() != 32 {
		t.Errorf("SegmentFrames() = %d, want 32", hp.SegmentFrames())
	}
	if hp.SpeakerCount(true) != 3 || hp.SpeakerCount(false) != 0 {
		t.Errorf("SpeakerCount = %d/%d", hp.SpeakerCount(true), hp.SpeakerCount(false))
	}
	if hp.SpeakerName(1) != "paimon" || hp.SpeakerName(9) != "" {
		t.Errorf("SpeakerName mismatch")
	}
	if hp.Model["inter_channels"] != float64(192) {
		t.Errorf("model params not preserved: %v", hp.Model)
	}
}

func TestLoadHParams_Errors(t *testing.T) {
	if _, err := LoadHParams(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"data":`},
		{"no cleaners", `{"data": {"sampling_rate": 22050}}`},
		{"empty cleaner", `{"data": {"text_cleaners": [""]}}`},
		{"negative speakers", `{"data": {"text_cleaners": ["x"], "n_speakers": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHParams([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	opts := Options{VocabSize: 52, Speakers: 3}

	if err := opts.Validate([]int64{0, 51, 12}, 2); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}

	tests := []struct {
		name string
		seq  []int64
		sid  int64
	}{
		{"empty", nil, 0},
		{"id too large", []int64{1, 52}, 0},
		{"negative id", []int64{-1}, 0},
		{"speaker too large", []int64{1}, 3},
		{"negative speaker", []int64{1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := opts.Validate(tt.seq, tt.sid); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	single := Options{VocabSize: 10}
	if err := single.Validate([]int64{1}, 99); err != nil {
		t.Errorf("speaker id should be ignored for single-speaker model: %v", err)
	}
}

func TestParams_ScalesOrder(t *testing.T) {
	p := Params{NoiseScale: 0.5, NoiseScaleW: 0.668, LengthScale: 1.4}
	got := p.scales()
	want := []float32{0.5, 1.4, 0.668}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scales()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInputNames(t *testing.T) {
	if n := inputNames(0); len(n) != 3 {
		t.Errorf("single speaker inputs = %v", n)
	}
	if n := inputNames(4); len(n) != 4 || n[3] != "sid" {
		t.Errorf("multi speaker inputs = %v", n)
	}
}

func TestOpen_InvalidVocab(t *testing.T) {
	if _, err := Open("model.onnx", Options{}); err == nil {
		t.Error("expected error for zero vocabulary")
	}
}
