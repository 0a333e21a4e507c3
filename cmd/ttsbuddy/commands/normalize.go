package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iabetor/ttsbuddy/internal/audio"
)

var normalizeMono bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize <input> <output.wav>",
	Short: "把 WAV/MP3 转换为 16-bit PCM WAV",
	Long: `读取 WAV (8/16/24/32-bit 整数或 32-bit 浮点) 或 MP3 文件，
按规则转换为 16-bit 有符号 PCM 后写入 WAV。浮点输入按峰值缩放。`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := audio.LoadFile(args[0])
		if err != nil {
			return err
		}
		pcm, err := audio.Normalize(buf)
		if err != nil {
			return err
		}
		if normalizeMono {
			pcm = audio.DownmixMono(pcm)
		}
		if err := audio.WriteWAVFile(args[1], pcm); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), noticeStyle.Render(fmt.Sprintf(
			"%s → int16, %d 声道, %d Hz, %v", buf.Format, pcm.Channels, pcm.SampleRate, pcm.Duration())))
		return nil
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeMono, "mono", false, "混为单声道")
}
