package classify

import "regexp"

// languagePattern 语言识别模式
type languagePattern struct {
	name    string
	pattern *regexp.Regexp
}

// languageTable 有序语言识别表，首个命中者生效
// 模式选取各语言最具区分度的惯用写法
var languageTable = []languagePattern{
	{"go", regexp.MustCompile(`(?m)^\s*(package \w+|func \w+\(|import \(|\w+ :=)`)},
	{"rust", regexp.MustCompile(`(?m)^\s*(fn \w+|let mut |use \w+::|impl )`)},
	{"python", regexp.MustCompile(`(?m)^\s*(def \w+\(|import \w+|from \w+ import|class \w+:)`)},
	{"typescript", regexp.MustCompile(`(?m)(: (string|number|boolean)\b|interface \w+ \{|export (type|interface))`)},
	{"javascript", regexp.MustCompile(`(?m)(=>|function \w*\(|const \w+ =|console\.log)`)},
	{"java", regexp.MustCompile(`(?m)(public (class|static)|System\.out\.|private \w+ \w+;)`)},
	{"c", regexp.MustCompile(`(?m)^\s*(#include\s*<|int main\(|printf\()`)},
	{"shell", regexp.MustCompile(`(?m)(^#!/bin/(ba)?sh|^\s*(echo|export|sudo) )`)},
	{"sql", regexp.MustCompile(`(?i)\b(select .+ from|insert into|create table|alter table)\b`)},
	{"html", regexp.MustCompile(`(?i)(<html|<div|<body|<!doctype)`)},
	{"ruby", regexp.MustCompile(`(?m)^\s*(def \w+$|require ['"]|puts )`)},
}

// SuggestLanguage 推测代码片段的编程语言
// 按识别表顺序匹配，无法判定时返回空串
func SuggestLanguage(code string) string {
	for _, entry := range languageTable {
		if entry.pattern.MatchString(code) {
			return entry.name
		}
	}
	return ""
}
