package text

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownCleaner 表示清洗器名称未注册，属于致命配置错误。
var ErrUnknownCleaner = errors.New("未注册的清洗器")

// Cleaner 是一个纯函数形式的文本清洗器。
type Cleaner func(text string) string

// Registry 管理按名称注册的清洗器。启动时填充，之后只读。
type Registry struct {
	cleaners map[string]Cleaner
}

// NewRegistry 创建一个空的清洗器注册表。
func NewRegistry() *Registry {
	return &Registry{cleaners: make(map[string]Cleaner)}
}

// DefaultRegistry 返回注册了内置清洗器的注册表。
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("basic_cleaners", BasicCleaner)
	r.Register("transliteration_cleaners", TransliterationCleaner)
	r.Register("chinese_cleaners", ChineseCleaner)
	return r
}

// Register 注册一个清洗器，同名覆盖。
func (r *Registry) Register(name string, c Cleaner) {
	r.cleaners[name] = c
}

// Lookup 返回指定名称的清洗器。
func (r *Registry) Lookup(name string) (Cleaner, error) {
	c, ok := r.cleaners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCleaner, name)
	}
	return c, nil
}

// Names 返回已注册的清洗器名称（已排序）。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cleaners))
	for name := range r.cleaners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate 检查清洗器链中的每个名称都已注册。
func (r *Registry) Validate(chain []string) error {
	for _, name := range chain {
		if _, err := r.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// Clean 依次执行清洗器链。
func (r *Registry) Clean(text string, chain []string) (string, error) {
	for _, name := range chain {
		c, err := r.Lookup(name)
		if err != nil {
			return "", err
		}
		text = c(text)
	}
	return text, nil
}

// collapseWhitespace 把连续空白合并为单个空格。
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// BasicCleaner 转小写并合并空白。
func BasicCleaner(text string) string {
	return collapseWhitespace(strings.ToLower(text))
}

// TransliterationCleaner 去掉变音符号后转小写并合并空白。
func TransliterationCleaner(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return BasicCleaner(stripped)
}
