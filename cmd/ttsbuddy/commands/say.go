package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iabetor/ttsbuddy/internal/audio"
	"github.com/iabetor/ttsbuddy/internal/tts"
)

var (
	sayAnnounce bool
	synthOutput string
)

var sayCmd = &cobra.Command{
	Use:   "say <text>...",
	Short: "朗读一段文本",
	Example: `  ttsbuddy say 你好
  ttsbuddy say --announce 日后还请多多赏光`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var opts []tts.SpeakOption
		if sayAnnounce {
			opts = append(opts, tts.WithAnnounce(cmd.OutOrStdout()))
		}
		return a.synth.Speak(cmd.Context(), strings.Join(args, " "), opts...)
	},
}

var synthCmd = &cobra.Command{
	Use:   "synth <text>...",
	Short: "用模型合成 WAV 文件",
	Long: `用 VITS 模型合成文本。
指定 -o 时写入该文件，否则写入临时文件并打印其路径（由调用方负责删除）。
本地语音引擎不产生波形，此命令仅适用于模型后端。`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.TTS.Local {
			return fmt.Errorf("本地语音引擎不支持合成文件，请设置 tts.local = false")
		}

		input := strings.Join(args, " ")
		if synthOutput == "" {
			path, err := a.synth.Synthesize(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}

		pcm, err := a.synth.Render(cmd.Context(), input)
		if err != nil {
			return err
		}
		if err := audio.WriteWAVFile(synthOutput, pcm); err != nil {
			os.Remove(synthOutput)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), noticeStyle.Render(
			fmt.Sprintf("已写入 %s (%d Hz, %v)", synthOutput, pcm.SampleRate, pcm.Duration())))
		return nil
	},
}

func init() {
	sayCmd.Flags().BoolVar(&sayAnnounce, "announce", false, "朗读前打印文本")
	synthCmd.Flags().StringVarP(&synthOutput, "output", "o", "", "输出 WAV 文件路径")
}
