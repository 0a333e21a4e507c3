package text

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSymbolID 表示序列中存在不属于当前符号表的索引。
var ErrInvalidSymbolID = errors.New("无效的符号索引")

// Vocabulary 是一个清洗器对应的符号表及双向映射。构造后只读，可在多个 goroutine 间共享。
type Vocabulary struct {
	profile  string
	fallback bool
	symbols  []string
	spaceID  int
	toID     map[rune]int64
}

// NewVocabulary 按清洗器名称构建符号表。
func NewVocabulary(profile string) *Vocabulary {
	symbols, spaceID := BuildVocabulary(profile)
	toID := make(map[rune]int64, len(symbols))
	for i, s := range symbols {
		toID[[]rune(s)[0]] = int64(i)
	}
	return &Vocabulary{
		profile:  profile,
		fallback: !HasProfile(profile),
		symbols:  symbols,
		spaceID:  spaceID,
		toID:     toID,
	}
}

// Profile 返回构建时使用的清洗器名称。
func (v *Vocabulary) Profile() string { return v.profile }

// Fallback 报告是否因名称未知而使用了默认符号表。
func (v *Vocabulary) Fallback() bool { return v.fallback }

// Len 返回符号数量。
func (v *Vocabulary) Len() int { return len(v.symbols) }

// SpaceID 返回空格符号的索引。
func (v *Vocabulary) SpaceID() int { return v.spaceID }

// Symbols 返回符号表副本。
func (v *Vocabulary) Symbols() []string {
	out := make([]string, len(v.symbols))
	copy(out, v.symbols)
	return out
}

// Encode 依次执行清洗器链后编码。清洗器未注册时返回 ErrUnknownCleaner。
func (v *Vocabulary) Encode(text string, chain []string, registry *Registry) ([]int64, error) {
	cleaned, err := registry.Clean(text, chain)
	if err != nil {
		return nil, err
	}
	return v.EncodeCleaned(cleaned), nil
}

// EncodeCleaned 将已清洗的文本映射为索引序列，不在符号表中的字符直接丢弃。
func (v *Vocabulary) EncodeCleaned(cleaned string) []int64 {
	seq := make([]int64, 0, len(cleaned))
	for _, r := range cleaned {
		if id, ok := v.toID[r]; ok {
			seq = append(seq, id)
		}
	}
	return seq
}

// Decode 将索引序列还原为文本。
func (v *Vocabulary) Decode(seq []int64) (string, error) {
	var b strings.Builder
	for i, id := range seq {
		if id < 0 || id >= int64(len(v.symbols)) {
			return "", fmt.Errorf("%w: 位置 %d 的索引 %d 超出范围 [0, %d)", ErrInvalidSymbolID, i, id, len(v.symbols))
		}
		b.WriteString(v.symbols[id])
	}
	return b.String(), nil
}

// Intersperse 在每两个元素之间及首尾插入 pad，长度为 2n+1。
func Intersperse(seq []int64, pad int64) []int64 {
	out := make([]int64, 2*len(seq)+1)
	for i := range out {
		out[i] = pad
	}
	for i, id := range seq {
		out[2*i+1] = id
	}
	return out
}
