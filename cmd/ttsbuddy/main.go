// ttsbuddy 是一个命令行语音朗读工具。
//
// 用法:
//
//	ttsbuddy [flags]            交互模式：朗读问候语后逐行朗读输入，空行退出
//	ttsbuddy say <text>         朗读一段文本
//	ttsbuddy synth <text> -o    合成 WAV 文件（仅模型后端）
//	ttsbuddy normalize <in> <out>
//	ttsbuddy symbols [profile]
//	ttsbuddy history
package main

import (
	"os"

	"github.com/iabetor/ttsbuddy/cmd/ttsbuddy/commands"
	"github.com/iabetor/ttsbuddy/internal/logger"
)

func main() {
	err := commands.Execute()
	logger.Sync()
	if err != nil {
		commands.PrintError(err)
		os.Exit(1)
	}
}
