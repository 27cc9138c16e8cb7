package classify

import "testing"

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Category
	}{
		{"HTTPS URL", "https://example.com", CategoryURL},
		{"HTTP URL", "http://example.com/page?q=1", CategoryURL},
		{"WWW URL", "www.example.com", CategoryURL},
		{"FTP URL", "ftp://files.example.com", CategoryURL},
		{"URL with whitespace", "  https://example.com  ", CategoryURL},
		{"File URL", "file:///tmp/report.pdf", CategoryFile},
		{"Unix path", "/home/ityike/notes.txt", CategoryFile},
		{"Mac path", "/Users/ityike/Desktop/draft.md", CategoryFile},
		{"Windows path", "C:\\Windows\\system32", CategoryFile},
		{"Image file", "vacation-photo.png", CategoryImage},
		{"Image uppercase ext", "SCAN.JPG", CategoryImage},
		{"Go snippet", "func foo() { return 1 }", CategoryCode},
		{"Python snippet", "def foo():\n    import os\n    return os.getcwd()", CategoryCode},
		{"Short phrase", "hello world", CategoryText},
		{"Long prose", "This is a longer paragraph of plain prose that talks about nothing in particular but exceeds the short text limit by a comfortable margin.", CategoryText},
		{"Empty", "", CategoryText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCategory(tc.text); got != tc.want {
				t.Errorf("DetectCategory(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestLooksLikeCode(t *testing.T) {
	// 仅有花括号不足以判定为代码
	if looksLikeCode("some {weird} text here that is long enough to avoid the short rule") {
		t.Error("Brace pair without keywords should not be code")
	}

	// 花括号 + 1个关键字命中
	if !looksLikeCode("func main() { }") {
		t.Error("Brace pair with keyword should be code")
	}

	// 缩进比例超过1/3
	indented := "line one\n    indented a\n    indented b\n    indented c"
	if !looksLikeCode(indented) {
		t.Error("Heavy indentation should be code")
	}
}

func TestSuggestLanguage(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"package main\n\nfunc main() {}", "go"},
		{"def hello():\n    print('hi')", "python"},
		{"fn main() {\n    let mut x = 1;\n}", "rust"},
		{"const add = (a, b) => a + b", "javascript"},
		{"#include <stdio.h>\nint main() {}", "c"},
		{"SELECT id FROM users WHERE age > 10", "sql"},
		{"just some plain words", ""},
	}

	for _, tc := range cases {
		if got := SuggestLanguage(tc.code); got != tc.want {
			t.Errorf("SuggestLanguage(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestSuggestTags(t *testing.T) {
	t.Run("CategoryTags", func(t *testing.T) {
		tags := SuggestTags("https://example.com", CategoryURL, "")
		if !contains(tags, "link") {
			t.Errorf("Expected 'link' tag for URL, got %v", tags)
		}

		tags = SuggestTags("func main() {}", CategoryCode, "")
		if !contains(tags, "go") {
			t.Errorf("Expected 'go' tag for Go code, got %v", tags)
		}
	})

	t.Run("EntitySpans", func(t *testing.T) {
		tags := SuggestTags("Discussed the Database Migration with the team", CategoryText, "")
		if !contains(tags, "database-migration") {
			t.Errorf("Expected entity span tag, got %v", tags)
		}
	})

	t.Run("SourceApp", func(t *testing.T) {
		tags := SuggestTags("short", CategoryText, "com.apple.Safari")
		if !contains(tags, "safari") {
			t.Errorf("Expected source app tag, got %v", tags)
		}
	})

	t.Run("CapAndDeterminism", func(t *testing.T) {
		text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
		a := SuggestTags(text, CategoryText, "")
		b := SuggestTags(text, CategoryText, "")

		if len(a) > MaxTags {
			t.Errorf("Expected at most %d tags, got %d", MaxTags, len(a))
		}

		if len(a) != len(b) {
			t.Fatal("Tag suggestion should be deterministic")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatal("Tag suggestion should be deterministic")
			}
		}

		// 截断前按字典序排序
		for i := 1; i < len(a); i++ {
			if a[i-1] > a[i] {
				t.Errorf("Tags not sorted: %v", a)
			}
		}
	})
}

func contains(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
