package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iabetor/ttsbuddy/internal/text"
)

var (
	symbolsEncode   string
	symbolsLanguage string
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [profile]",
	Short: "查看清洗器符号表",
	Long: `不带参数时列出所有符号方案；指定方案时打印其符号表。
--encode 把已清洗文本映射为索引序列（不在符号表中的字符被丢弃）。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range text.Profiles() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		vocab := text.NewVocabulary(args[0])
		if vocab.Fallback() {
			fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("未知方案 %s，使用默认方案 %s", args[0], text.DefaultProfile)))
		}

		if symbolsEncode != "" {
			tagged := text.Tag(symbolsEncode, args[0], symbolsLanguage)
			seq := vocab.EncodeCleaned(tagged)
			ids := make([]string, len(seq))
			for i, id := range seq {
				ids[i] = strconv.FormatInt(id, 10)
			}
			fmt.Fprintln(out, strings.Join(ids, " "))
			return nil
		}

		for i, s := range vocab.Symbols() {
			fmt.Fprintf(out, "%3d  %q  U+%04X\n", i, s, []rune(s)[0])
		}
		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("共 %d 个符号，空格索引 %d", vocab.Len(), vocab.SpaceID())))
		return nil
	},
}

func init() {
	symbolsCmd.Flags().StringVar(&symbolsEncode, "encode", "", "要编码的已清洗文本")
	symbolsCmd.Flags().StringVar(&symbolsLanguage, "language", "", "编码前添加的语言标记")
}
