package text

// languageTags 列出支持多语种合成的清洗器及其可识别的语言代码。
// 不在表中的清洗器不做标记。
var languageTags = map[string]map[string]bool{
	"zh_ja_mixture_cleaners": {"ZH": true, "JA": true},
	"cjks_cleaners":          {"ZH": true, "JA": true, "KO": true, "SA": true, "EN": true},
	"cjke_cleaners":          {"ZH": true, "JA": true, "KO": true, "EN": true},
	"cjke_cleaners2":         {"ZH": true, "JA": true, "KO": true, "EN": true},
	// SH 上海话，GD 粤语
	"chinese_dialect_cleaners": {"ZH": true, "JA": true, "SH": true, "GD": true, "EN": true},
}

// SupportsLanguage 判断清洗器是否能识别该语言代码。
func SupportsLanguage(profile, code string) bool {
	return languageTags[profile][code]
}

// Tag 用 [CODE] 前后缀包裹文本。清洗器不支持多语种或代码未知时原样返回。
func Tag(text, profile, code string) string {
	if !SupportsLanguage(profile, code) {
		return text
	}
	marker := "[" + code + "]"
	return marker + text + marker
}
