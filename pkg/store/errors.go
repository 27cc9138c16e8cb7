package store

import "errors"

// 持久化层的类型化失败结果
// 调用方用errors.Is判断，不依赖错误文本
var (
	// ErrDuplicate 已存在相同指纹的条目或同名集合
	ErrDuplicate = errors.New("duplicate")
	// ErrNotFound 条目或集合不存在
	ErrNotFound = errors.New("not found")
	// ErrValidation 输入校验失败（空标题、空内容、超限等）
	ErrValidation = errors.New("validation failed")
	// ErrStoreUnavailable 存储打开或连接失败
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrSaveFailed 写入失败
	ErrSaveFailed = errors.New("save failed")
	// ErrDeleteFailed 删除失败
	ErrDeleteFailed = errors.New("delete failed")
)
