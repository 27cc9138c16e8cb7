package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// MaxTags 单个条目的标签数量上限
const MaxTags = 5

// capitalizedSpan 连续大写开头词组成的类命名实体片段
var capitalizedSpan = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)

// stopWords 常见虚词，不作为标签候选
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"about": true, "there": true, "their": true, "would": true, "which": true,
	"these": true, "those": true, "will": true, "your": true, "what": true,
	"when": true, "where": true, "then": true, "than": true, "into": true,
}

// SuggestTags 从文本推荐标签
// 候选来源：类命名实体片段、普通名词、类别派生标签、来源应用名；
// 结果先按字典序排序再截断到上限，保证确定性
func SuggestTags(text string, category Category, sourceApp string) []string {
	seen := make(map[string]bool)
	var tags []string

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	// (a) 类命名实体：连续大写开头的多词片段
	for _, span := range capitalizedSpan.FindAllString(text, 8) {
		add(strings.ReplaceAll(span, " ", "-"))
	}

	// (b) 普通名词：长度4-24的纯字母词
	for _, token := range tokenizeWords(text) {
		if len(token) >= 4 && len(token) <= 24 && isAlphabetic(token) && !stopWords[token] {
			add(token)
		}
	}

	// (c) 类别派生标签
	switch category {
	case CategoryCode:
		if lang := SuggestLanguage(text); lang != "" {
			add(lang)
		} else {
			add("code")
		}
	case CategoryURL:
		add("link")
	case CategoryFile:
		add("file")
	}

	// (d) 来源应用短名
	if sourceApp != "" {
		add(shortAppName(sourceApp))
	}

	// 排序后截断，保证同一输入总是得到同一组标签
	sort.Strings(tags)
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}

	return tags
}

// tokenizeWords 按非字母数字边界切词并转小写
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// isAlphabetic 判断是否纯字母
func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

// shortAppName 提取应用标识的短名
// "com.apple.Safari" -> "safari"
func shortAppName(app string) string {
	parts := strings.Split(app, ".")
	return strings.ToLower(parts[len(parts)-1])
}
