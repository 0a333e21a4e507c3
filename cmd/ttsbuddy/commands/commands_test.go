package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iabetor/ttsbuddy/internal/audio"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadLoop_StopsOnEmptyLine(t *testing.T) {
	in := strings.NewReader("第一句\n第二句\n\n第三句\n")
	var out bytes.Buffer
	var lines []string
	err := readLoop(in, &out, "云堇 说：", func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "第一句" || lines[1] != "第二句" {
		t.Errorf("lines = %v", lines)
	}
	if strings.Count(out.String(), "云堇 说：") != 3 {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestReadLoop_EOFAndHandlerError(t *testing.T) {
	var count int
	err := readLoop(strings.NewReader("a\r\nb"), &bytes.Buffer{}, "> ", func(line string) error {
		count++
		if line != "a" && line != "b" {
			t.Errorf("unexpected line %q", line)
		}
		return nil
	})
	if err != nil || count != 2 {
		t.Errorf("EOF handling: count=%d err=%v", count, err)
	}

	boom := errors.New("boom")
	err = readLoop(strings.NewReader("x\ny\n"), &bytes.Buffer{}, "> ", func(string) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestSymbolsCommand(t *testing.T) {
	out, err := execute(t, "symbols")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "zh_ja_mixture_cleaners") || !strings.Contains(out, "thai_cleaners") {
		t.Errorf("profile list = %q", out)
	}

	out, err = execute(t, "symbols", "japanese_cleaners")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "40") || !strings.Contains(out, "39") {
		t.Errorf("vocabulary summary missing: %q", out)
	}
}

func TestSymbolsCommand_Encode(t *testing.T) {
	out, err := execute(t, "symbols", "cjke_cleaners2", "--encode", "hello", "--language", "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "16 13 20 20 23" {
		t.Errorf("encode output = %q", out)
	}
	symbolsEncode = ""
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	src := audio.PCM16{Samples: []int16{100, 300, -100, -300}, Channels: 2, SampleRate: 16000}
	if err := audio.WriteWAVFile(in, src); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "normalize", "--mono", in, outPath); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	normalizeMono = false

	buf, err := audio.LoadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	pcm, err := audio.Normalize(buf)
	if err != nil {
		t.Fatal(err)
	}
	if pcm.Channels != 1 || len(pcm.Samples) != 2 || pcm.Samples[0] != 200 || pcm.Samples[1] != -200 {
		t.Errorf("unexpected output: %+v", pcm)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := execute(t, "say", "--config", filepath.Join(t.TempDir(), "none.yaml"), "你好")
	if err == nil || !strings.Contains(err.Error(), "未找到") {
		t.Errorf("expected missing config error, got %v", err)
	}
	cfgFile = "config.yaml"
}
