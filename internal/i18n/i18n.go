package i18n

import "strings"

// Language 界面语言
type Language string

const (
	EN Language = "en"
	AR Language = "ar"

	// Default 缺失翻译时回退的语言
	Default = EN
)

// ParseLanguage 解析语言代码，无法识别时返回默认语言
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	// 兼容 "ar-EG"、"en_US" 这类带地区的写法
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	switch Language(s) {
	case AR:
		return AR
	case EN:
		return EN
	default:
		return Default
	}
}

// Valid 是否为支持的语言
func (l Language) Valid() bool {
	_, ok := tables[l]
	return ok
}

// Direction 返回文字方向：阿拉伯语为 rtl，其余为 ltr
func Direction(lang Language) string {
	if lang == AR {
		return "rtl"
	}
	return "ltr"
}

// T 按 请求语言 -> 默认语言 -> key 本身 的顺序查找文案，永远不会返回空串
func T(key string, lang Language) string {
	if s := tables[lang][key]; s != "" {
		return s
	}
	if s := tables[Default][key]; s != "" {
		return s
	}
	return key
}

// Has 默认语言中是否定义了该 key
func Has(key string) bool {
	_, ok := tables[Default][key]
	return ok
}
