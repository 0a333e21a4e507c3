package text

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// 声母，按最长匹配排列
var pinyinInitials = []string{"zh", "ch", "sh", "b", "p", "m", "f", "d", "t", "n", "l", "g", "k", "h", "j", "q", "x", "r", "z", "c", "s"}

var initialBopomofo = map[string]string{
	"b": "ㄅ", "p": "ㄆ", "m": "ㄇ", "f": "ㄈ",
	"d": "ㄉ", "t": "ㄊ", "n": "ㄋ", "l": "ㄌ",
	"g": "ㄍ", "k": "ㄎ", "h": "ㄏ",
	"j": "ㄐ", "q": "ㄑ", "x": "ㄒ",
	"zh": "ㄓ", "ch": "ㄔ", "sh": "ㄕ", "r": "ㄖ",
	"z": "ㄗ", "c": "ㄘ", "s": "ㄙ",
}

// 韵母，v 表示 ü
var finalBopomofo = map[string]string{
	"a": "ㄚ", "o": "ㄛ", "e": "ㄜ", "ê": "ㄝ",
	"ai": "ㄞ", "ei": "ㄟ", "ao": "ㄠ", "ou": "ㄡ",
	"an": "ㄢ", "en": "ㄣ", "ang": "ㄤ", "eng": "ㄥ", "er": "ㄦ",
	"i": "ㄧ", "ia": "ㄧㄚ", "io": "ㄧㄛ", "ie": "ㄧㄝ", "iao": "ㄧㄠ",
	"iu": "ㄧㄡ", "iou": "ㄧㄡ", "ian": "ㄧㄢ", "in": "ㄧㄣ",
	"iang": "ㄧㄤ", "ing": "ㄧㄥ", "iong": "ㄩㄥ",
	"u": "ㄨ", "ua": "ㄨㄚ", "uo": "ㄨㄛ", "uai": "ㄨㄞ",
	"ui": "ㄨㄟ", "uei": "ㄨㄟ", "uan": "ㄨㄢ", "un": "ㄨㄣ", "uen": "ㄨㄣ",
	"uang": "ㄨㄤ", "ueng": "ㄨㄥ", "ong": "ㄨㄥ",
	"v": "ㄩ", "ve": "ㄩㄝ", "van": "ㄩㄢ", "vn": "ㄩㄣ",
}

var toneMarks = map[byte]string{'1': "ˉ", '2': "ˊ", '3': "ˇ", '4': "ˋ", '5': "˙"}

var chinesePunctuation = strings.NewReplacer(
	",", "，", ".", "。", "!", "！", "?", "？",
	"、", "，", "；", "，", "：", "，", ";", "，", ":", "，",
)

var chineseDigits = strings.NewReplacer(
	"0", "零", "1", "一", "2", "二", "3", "三", "4", "四",
	"5", "五", "6", "六", "7", "七", "8", "八", "9", "九",
)

// ChineseCleaner 将汉字转换为带声调的注音符号，标点转为全角。
func ChineseCleaner(text string) string {
	text = chinesePunctuation.Replace(chineseDigits.Replace(text))

	args := pinyin.NewArgs()
	args.Style = pinyin.Tone3

	var out strings.Builder
	var han []rune
	flush := func() {
		if len(han) == 0 {
			return
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		for _, syllable := range pinyin.LazyPinyin(string(han), args) {
			out.WriteString(pinyinToBopomofo(syllable))
		}
		han = han[:0]
	}

	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			han = append(han, r)
			continue
		}
		flush()
		out.WriteRune(r)
	}
	flush()

	result := collapseWhitespace(out.String())
	for _, mark := range toneMarks {
		if strings.HasSuffix(result, mark) {
			return result + "。"
		}
	}
	return result
}

// pinyinToBopomofo 将 Tone3 风格的拼音（如 zhong1）转换为注音。无法识别时返回空串。
func pinyinToBopomofo(syllable string) string {
	syllable = strings.ReplaceAll(strings.ToLower(syllable), "ü", "v")
	if syllable == "" {
		return ""
	}

	tone := toneMarks['5']
	if last := syllable[len(syllable)-1]; last >= '1' && last <= '5' {
		tone = toneMarks[last]
		syllable = syllable[:len(syllable)-1]
	}

	initial, final := splitPinyin(syllable)
	var b strings.Builder
	if initial != "" {
		b.WriteString(initialBopomofo[initial])
	}
	if final != "" {
		f, ok := finalBopomofo[final]
		if !ok {
			return ""
		}
		b.WriteString(f)
	} else if initial == "" {
		return ""
	}
	b.WriteString(tone)
	return b.String()
}

// splitPinyin 拆分声母与韵母，并处理 y/w 零声母和 j/q/x 后的 ü。
func splitPinyin(s string) (string, string) {
	switch {
	case strings.HasPrefix(s, "y"):
		rest := s[1:]
		switch {
		case strings.HasPrefix(rest, "u"):
			return "", "v" + rest[1:]
		case strings.HasPrefix(rest, "i"):
			return "", rest
		default:
			return "", "i" + rest
		}
	case strings.HasPrefix(s, "w"):
		rest := s[1:]
		if strings.HasPrefix(rest, "u") {
			return "", rest
		}
		return "", "u" + rest
	}

	for _, ini := range pinyinInitials {
		if !strings.HasPrefix(s, ini) {
			continue
		}
		final := s[len(ini):]
		switch ini {
		case "j", "q", "x":
			if strings.HasPrefix(final, "u") {
				final = "v" + final[1:]
			}
		case "zh", "ch", "sh", "r", "z", "c", "s":
			// 舌尖元音不单独标注
			if final == "i" {
				final = ""
			}
		}
		if final == "" {
			switch ini {
			case "zh", "ch", "sh", "r", "z", "c", "s":
			default:
				return "", "?"
			}
		}
		return ini, final
	}
	return "", s
}
