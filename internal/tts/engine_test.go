package tts

import (
	"context"
	"reflect"
	"testing"

	"github.com/iabetor/ttsbuddy/internal/audio"
)

type fakePCMPlayer struct {
	played []audio.PCM16
}

func (p *fakePCMPlayer) Play(ctx context.Context, pcm audio.PCM16) error {
	p.played = append(p.played, pcm)
	return nil
}

func TestSayEngine_Args(t *testing.T) {
	tests := []struct {
		voice string
		rate  int
		want  []string
	}{
		{"", 0, []string{"--", "你好"}},
		{"Tingting", 0, []string{"-v", "Tingting", "--", "你好"}},
		{"Tingting", 180, []string{"-v", "Tingting", "-r", "180", "--", "你好"}},
	}
	for _, tt := range tests {
		got := NewSayEngine(tt.voice, tt.rate).args("你好")
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("args(%q, %d) = %v, want %v", tt.voice, tt.rate, got, tt.want)
		}
	}
}

func TestEspeakEngine_Defaults(t *testing.T) {
	e := NewEspeakEngine("", "zh", 150)
	if e.binary != "espeak-ng" {
		t.Errorf("binary = %q, want espeak-ng", e.binary)
	}
	want := []string{"-v", "zh", "-s", "150", "--", "-dash"}
	if got := e.args("-dash"); !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestPlayMP3_Empty(t *testing.T) {
	p := &fakePCMPlayer{}
	if err := playMP3(context.Background(), p, "edge", nil); err == nil {
		t.Error("expected error for empty audio")
	}
	if len(p.played) != 0 {
		t.Error("nothing should be played")
	}
}

func TestRunCommand_Missing(t *testing.T) {
	if err := runCommand(context.Background(), "ttsbuddy-no-such-binary"); err == nil {
		t.Error("expected error for missing binary")
	}
}
