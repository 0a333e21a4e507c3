package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iabetor/ttsbuddy/internal/config"
	"github.com/iabetor/ttsbuddy/internal/logger"
)

var (
	// 全局参数
	cfgFile string
	verbose bool

	errorStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

var rootCmd = &cobra.Command{
	Use:   "ttsbuddy",
	Short: "语音朗读工具（VITS 模型或本地语音引擎）",
	Long: `ttsbuddy 朗读输入的文本。

后端由配置文件 tts.local 决定：
  - false: 使用 VITS 模型（config_path + model_path，ONNX 导出）
  - true:  使用本地语音引擎（say / espeak / edge / piper / tencent）

不带子命令运行时进入交互模式，输入空行退出。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(logger.Config{Level: levelFlag("info")})
	},
	RunE: runInteractive,
}

// Execute 执行根命令。
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// PrintError 以红底样式输出错误。
func PrintError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(historyCmd)
}

func levelFlag(level string) string {
	if verbose {
		return "debug"
	}
	return level
}

func initLogger(cfg logger.Config) error {
	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	return nil
}

// loadConfig 读取并校验配置，随后按配置重新初始化日志。
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("未找到 %s 配置文件！", cfgFile)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := initLogger(logger.Config{Level: levelFlag(cfg.Log.Level), File: cfg.Log.File}); err != nil {
		return nil, err
	}
	return cfg, nil
}
