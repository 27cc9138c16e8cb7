// Package llm 提供文本嵌入（Embedding）能力的抽象与实现
package llm

import (
	"errors"
	"fmt"
)

// MaxEmbedChars 嵌入前分析的最大字符数
// 超长文本会被截断，以限制单次嵌入的延迟
const MaxEmbedChars = 10000

// DefaultDimensions 默认嵌入向量维度
const DefaultDimensions = 512

// Embedder 嵌入提供者接口
// 实现必须满足：同一实例生命周期内，相同输入产生相同向量；
// 向量维度固定；可以在后台goroutine中安全调用
type Embedder interface {
	// Embed 生成文本的嵌入向量
	Embed(text string) ([]float32, error)

	// Dimensions 返回向量维度
	Dimensions() int
}

// FailureKind 嵌入失败类型
type FailureKind string

const (
	// FailureModelUnavailable 模型未能初始化，不可重试
	FailureModelUnavailable FailureKind = "model_unavailable"
	// FailureTransient 单次调用失败，可以安全重试
	FailureTransient FailureKind = "transient"
)

// EmbedError 带失败类型的嵌入错误
type EmbedError struct {
	Kind FailureKind
	Err  error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("embedding failed (%s): %v", e.Kind, e.Err)
}

func (e *EmbedError) Unwrap() error {
	return e.Err
}

// IsModelUnavailable 判断是否为模型不可用错误
func IsModelUnavailable(err error) bool {
	var ee *EmbedError
	return errors.As(err, &ee) && ee.Kind == FailureModelUnavailable
}

// IsTransient 判断是否为可重试的瞬时错误
func IsTransient(err error) bool {
	var ee *EmbedError
	return errors.As(err, &ee) && ee.Kind == FailureTransient
}

// truncateText 截断文本到最大分析长度
// 按rune截断，避免切断多字节字符
func truncateText(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
