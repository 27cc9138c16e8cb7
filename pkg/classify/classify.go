// Package classify 提供捕获内容的类别识别和标签推荐
// 纯文本启发式分析，无外部依赖，永不失败（失败时降级为text类别）
package classify

import (
	"strings"
)

// Category 内容类别
type Category string

const (
	CategoryText  Category = "text"  // 普通文本
	CategoryCode  Category = "code"  // 代码片段
	CategoryURL   Category = "url"   // 网址
	CategoryFile  Category = "file"  // 文件引用
	CategoryImage Category = "image" // 图片引用
	CategoryOther Category = "other" // 其他（保留值，检测不会返回）
)

// Valid 判断类别是否是已知枚举值
func (c Category) Valid() bool {
	switch c {
	case CategoryText, CategoryCode, CategoryURL, CategoryFile, CategoryImage, CategoryOther:
		return true
	}
	return false
}

// urlPrefixes URL类别的前缀集合
var urlPrefixes = []string{"http://", "https://", "www.", "ftp://"}

// filePrefixes 文件引用类别的前缀集合
var filePrefixes = []string{
	"file://",
	"/Users/", "/home/", "/tmp/", "/var/", "/etc/", "/opt/",
	"~/",
	"C:\\", "D:\\",
}

// imageExtensions 图片扩展名集合
var imageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg", ".heic", ".tiff",
}

// codeKeywords 代码关键字模式
// 统计命中数用于代码类别判定
var codeKeywords = []string{
	"func ", "def ", "class ", "import ", "var ", "let ", "const ",
	"function ", "struct ", "enum ", "if(", "if (", "for(", "for (",
	"while(", "while (",
}

// DetectCategory 识别文本类别
// 规则按顺序评估，首个命中者生效；全部未命中时回退为text
func DetectCategory(text string) Category {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return CategoryText
	}

	lower := strings.ToLower(trimmed)

	// 1. URL
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return CategoryURL
		}
	}

	// 2. 文件引用
	for _, prefix := range filePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return CategoryFile
		}
	}

	// 3. 图片引用
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return CategoryImage
		}
	}

	// 4. 代码
	if looksLikeCode(trimmed) {
		return CategoryCode
	}

	// 5. 短的单行内容
	if len([]rune(trimmed)) < 50 && !strings.Contains(trimmed, "\n") {
		return CategoryText
	}

	// 6. 兜底：永不留空类别
	return CategoryText
}

// looksLikeCode 代码启发式判定
// 命中条件：关键字>=2 或 缩进行比例>1/3 或 （存在成对花括号 且 关键字>=1）
func looksLikeCode(text string) bool {
	keywordHits := 0
	for _, kw := range codeKeywords {
		keywordHits += strings.Count(text, kw)
	}

	if keywordHits >= 2 {
		return true
	}

	lines := strings.Split(text, "\n")
	indented := 0
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			indented++
		}
	}
	if len(lines) > 1 && float64(indented) > float64(len(lines))/3.0 {
		return true
	}

	hasBracePair := strings.Contains(text, "{") && strings.Contains(text, "}")
	return hasBracePair && keywordHits >= 1
}
