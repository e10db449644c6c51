package taxonomy

import (
	"fmt"
	"strings"
)

// Label 解析后的标签。完整形式为 domain.category.type，
// 可选带第四段 locale 后缀（如 datetime.date.us_slash.US）。
// 解析后不可变。
type Label struct {
	Domain   string
	Category string
	Type     string
	Locale   string
}

// ParseLabel 解析标签键
func ParseLabel(s string) (*Label, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 3 || len(parts) > 4 {
		return nil, fmt.Errorf("无效的标签键（需要 domain.category.type）: %s", s)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("无效的标签键（段不能为空）: %s", s)
		}
	}
	label := &Label{Domain: parts[0], Category: parts[1], Type: parts[2]}
	if len(parts) == 4 {
		label.Locale = parts[3]
	}
	return label, nil
}

// Base 不含 locale 的标签键（domain.category.type）
func (l *Label) Base() string {
	return l.Domain + "." + l.Category + "." + l.Type
}

// Full 含 locale 的完整标签键；未设置 locale 时与 Base 相同
func (l *Label) Full() string {
	if l.Locale == "" {
		return l.Base()
	}
	return l.Base() + "." + l.Locale
}

// WithLocale 生成带指定 locale 的标签键
func (l *Label) WithLocale(locale string) string {
	return l.Base() + "." + locale
}

// Provider 生成器视角的 provider（即 domain）
func (l *Label) Provider() string {
	return l.Domain
}

// Method 生成器视角的 method（即 category.type）
func (l *Label) Method() string {
	return l.Category + "." + l.Type
}

func (l *Label) String() string {
	return l.Full()
}
