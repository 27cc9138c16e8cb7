// Package hash 提供内容指纹计算（Content Fingerprint）
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint 计算文本的SHA256指纹
// 计算前会去除首尾空白，保证同一内容的不同粘贴产生相同指纹
func Fingerprint(text string) string {
	normalized := strings.TrimSpace(text)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// ShortID 返回指纹的短ID（前8位）
// 用于日志和CLI输出中引用条目
func ShortID(fingerprint string) string {
	if len(fingerprint) >= 8 {
		return fingerprint[:8]
	}
	return fingerprint
}
