package clipboard

import "strings"

// MaxTitleLength 标题最大长度（Unicode标量数）
const MaxTitleLength = 256

// ellipsis 截断标记
const ellipsis = "…"

// DeriveTitle 从捕获文本派生显示标题
// URL取整体截断；多行文本取首行；其余直接截断
func DeriveTitle(text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return truncateRunes(trimmed, MaxTitleLength)
	}

	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		return truncateRunes(firstLine, MaxTitleLength)
	}

	return truncateRunes(trimmed, MaxTitleLength)
}

// truncateRunes 按rune截断并附加截断标记
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + ellipsis
}
