package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iabetor/ttsbuddy/internal/logger"
	"github.com/iabetor/ttsbuddy/internal/tts"
)

// runInteractive 朗读问候语，然后逐行朗读标准输入，空行或 EOF 退出。
func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := a.synth.Speak(ctx, a.cfg.Greeting, tts.WithAnnounce(out)); err != nil {
		return err
	}
	return readLoop(cmd.InOrStdin(), out, a.cfg.Prompt, func(line string) error {
		err := a.synth.Speak(ctx, line)
		if err != nil && ctx.Err() == nil {
			// 单句失败不退出交互
			logger.Errorf("[main] 朗读失败: %v", err)
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			return nil
		}
		return err
	})
}

// readLoop 打印提示并逐行读取，直到空行或输入结束。
func readLoop(in io.Reader, out io.Writer, prompt string, handle func(line string) error) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			return nil
		}
		if err := handle(line); err != nil {
			return err
		}
	}
}
