package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWAV_RoundTrip(t *testing.T) {
	pcm := PCM16{
		Samples:    []int16{0, 100, -100, 32767, -32768, 7, -7, 1},
		Channels:   2,
		SampleRate: 22050,
		Source:     FormatS16,
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAVFile(path, pcm); err != nil {
		t.Fatalf("WriteWAVFile failed: %v", err)
	}

	buf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if buf.Format != FormatS16 || buf.Channels != 2 || buf.SampleRate != 22050 {
		t.Fatalf("unexpected header: %s %d ch %d Hz", buf.Format, buf.Channels, buf.SampleRate)
	}

	got, err := Normalize(buf)
	if err != nil {
		t.Fatal(err)
	}
	assertSamples(t, got, pcm.Samples)
}

func TestWriteWAV_InvalidLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	err := WriteWAVFile(path, PCM16{Samples: []int16{1}, Channels: 0, SampleRate: 22050})
	if !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestLoadFile_UnsupportedContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrUnsupportedContainer) {
		t.Fatalf("expected ErrUnsupportedContainer, got %v", err)
	}
}

func TestDownmixMono(t *testing.T) {
	in := PCM16{Samples: []int16{100, 200, -50, -150}, Channels: 2, SampleRate: 8000}
	out := DownmixMono(in)
	if out.Channels != 1 || out.SampleRate != 8000 {
		t.Fatalf("unexpected layout: %d ch %d Hz", out.Channels, out.SampleRate)
	}
	assertSamples(t, out, []int16{150, -100})

	mono := PCM16{Samples: []int16{1, 2}, Channels: 1}
	if got := DownmixMono(mono); len(got.Samples) != 2 {
		t.Errorf("mono input should be returned unchanged")
	}
}

type fakePlayer struct {
	played []string
	err    error
}

func (f *fakePlayer) PlayFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f.played = append(f.played, path)
	return f.err
}

func TestPackager_PackageAndPlayRemovesFile(t *testing.T) {
	player := &fakePlayer{}
	p := NewPackager(t.TempDir(), player)

	path, err := p.Package(PCM16{Samples: []int16{1, 2, 3}, Channels: 1, SampleRate: 22050})
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %s", path)
	}
	if err := p.PlayAndRemove(context.Background(), path); err != nil {
		t.Fatalf("PlayAndRemove failed: %v", err)
	}
	if len(player.played) != 1 {
		t.Fatalf("expected one playback, got %d", len(player.played))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file should be removed, stat err = %v", err)
	}
}

func TestPackager_RemovesFileWhenPlaybackFails(t *testing.T) {
	player := &fakePlayer{err: errors.New("device busy")}
	p := NewPackager(t.TempDir(), player)

	path, err := p.Package(PCM16{Samples: []int16{1}, Channels: 1, SampleRate: 22050})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.PlayAndRemove(context.Background(), path); err == nil {
		t.Fatal("expected playback error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file should be removed after failed playback, stat err = %v", err)
	}
}

func TestPackager_NoPlayer(t *testing.T) {
	p := NewPackager(t.TempDir(), nil)
	path, err := p.Package(PCM16{Samples: []int16{1}, Channels: 1, SampleRate: 22050})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.PlayAndRemove(context.Background(), path); err == nil {
		t.Fatal("expected error without player")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file should be removed, stat err = %v", err)
	}
}
