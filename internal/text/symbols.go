// Package text 实现文本到模型符号序列的转换：符号表、语言标记、清洗器与编解码。
package text

import "sort"

// Pad 是所有符号表的填充符号，始终位于索引 0。
const Pad = "_"

// DefaultProfile 是未知清洗器名称回退使用的符号表。
const DefaultProfile = "zh_ja_mixture_cleaners"

// symbolSet 描述一个清洗器对应的字母表：填充符 + 标点 + 字母。
type symbolSet struct {
	punctuation string
	letters     string
}

// symbolSets 按清洗器名称索引。顺序与模型训练时的符号表一致，不可更改。
var symbolSets = map[string]symbolSet{
	"japanese_cleaners": {
		punctuation: ",.!?-",
		letters:     "AEINOQUabdefghijkmnoprstuvwyzʃʧ↓↑ ",
	},
	"japanese_cleaners2": {
		punctuation: ",.!?-~…",
		letters:     "AEINOQUabdefghijkmnoprstuvwyzʃʧʦ↓↑ ",
	},
	"korean_cleaners": {
		punctuation: ",.!?…~",
		letters:     "ㄱㄴㄷㄹㅁㅂㅅㅇㅈㅊㅋㅌㅍㅎㄲㄸㅃㅆㅉㅏㅓㅗㅜㅡㅣㅐㅔ ",
	},
	"chinese_cleaners": {
		punctuation: "，。！？—…",
		letters:     "ㄅㄆㄇㄈㄉㄊㄋㄌㄍㄎㄏㄐㄑㄒㄓㄔㄕㄖㄗㄘㄙㄚㄛㄜㄝㄞㄟㄠㄡㄢㄣㄤㄥㄦㄧㄨㄩˉˊˇˋ˙ ",
	},
	"zh_ja_mixture_cleaners": {
		punctuation: ",.!?-~…",
		letters:     "AEINOQUabdefghijklmnoprstuvwyzʃʧʦɯɹəɥ⁼ʰ`→↓↑ ",
	},
	"sanskrit_cleaners": {
		punctuation: "।",
		letters:     "ँंःअआइईउऊऋएऐओऔकखगघङचछजझञटठडढणतथदधनपफबभमयरलळवशषसहऽािीुूृॄेैोौ्ॠॢ ",
	},
	"cjks_cleaners": {
		punctuation: ",.!?-~…",
		letters:     "NQabdefghijklmnopstuvwxyzʃʧʥʦɯɹəɥçɸɾβŋɦː⁼ʰ`^#*=→↓↑ ",
	},
	"thai_cleaners": {
		// 空格属于标点部分
		punctuation: ".!? ",
		letters:     "กขฃคฆงจฉชซฌญฎฏฐฑฒณดตถทธนบปผฝพฟภมยรฤลวศษสหฬอฮฯะัาำิีึืุูเแโใไๅๆ็่้๊๋์",
	},
	"cjke_cleaners2": {
		punctuation: ",.!?-~…",
		letters:     "NQabdefghijklmnopstuvwxyzɑæʃʑçɯɪɔɛɹðəɫɥɸʊɾʒθβŋɦ⁼ʰ`^#*=ˈˌ→↓↑ ",
	},
	"shanghainese_cleaners": {
		punctuation: ",.!?…",
		letters:     "abdfghiklmnopstuvyzøŋȵɑɔɕəɤɦɪɿʑʔʰ\u0303\u0329ᴀᴇ15678 ",
	},
	"chinese_dialect_cleaners": {
		punctuation: ",.!?~…─",
		letters:     "#Nabdefghijklmnoprstuvwxyzæçøŋœȵɐɑɒɓɔɕɗɘəɚɛɜɣɤɦɪɭɯɵɷɸɻɾɿʂʅʊʋʌʏʑʔʦʮʰʷˀː˥˦˧˨˩\u0303\u031a\u0325\u0329ᴀᴇ↑↓∅ⱼ ",
	},
}

// HasProfile 判断清洗器名称是否有专属符号表。
func HasProfile(profile string) bool {
	_, ok := symbolSets[profile]
	return ok
}

// Profiles 返回所有有专属符号表的清洗器名称（已排序）。
func Profiles() []string {
	names := make([]string, 0, len(symbolSets))
	for name := range symbolSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildVocabulary 返回清洗器对应的有序符号表及空格符号的索引。
// 未知名称回退到 DefaultProfile。每个符号是一个 Unicode 码点。
func BuildVocabulary(profile string) ([]string, int) {
	set, ok := symbolSets[profile]
	if !ok {
		set = symbolSets[DefaultProfile]
	}

	symbols := make([]string, 0, 1+len(set.punctuation)+len(set.letters))
	symbols = append(symbols, Pad)
	for _, r := range set.punctuation {
		symbols = append(symbols, string(r))
	}
	for _, r := range set.letters {
		symbols = append(symbols, string(r))
	}

	spaceID := -1
	for i, s := range symbols {
		if s == " " {
			spaceID = i
			break
		}
	}
	return symbols, spaceID
}
