package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	// Internal 未分类的内部错误
	Internal Kind = iota
	// Validation 输入校验失败（长度/范围等，用户可修正）
	Validation
	// NotFound 按归属查找未命中
	NotFound
	// DuplicateTitle 存储层 (owner, title) 唯一约束冲突
	DuplicateTitle
	// AlreadyExists 导入时发现该电影已在片单中（用于友好提示）
	AlreadyExists
	// Unauthenticated 未登录或 Token 无效
	Unauthenticated
	// Unauthorized 已登录但无权访问
	Unauthorized
	// InvalidRequest 请求参数缺失或非法
	InvalidRequest
	// Upstream 外部片库（TMDB）调用失败
	Upstream
)

// Error 应用错误，携带类别与用户可见消息
type Error struct {
	Kind    Kind
	Message string
	Err     error // 底层错误，仅用于日志
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode 错误类别对应的 HTTP 状态码
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation, InvalidRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case DuplicateTitle, AlreadyExists:
		return http.StatusConflict
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New 创建应用错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is 判断错误链中是否存在指定类别的应用错误
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// From 提取错误链中的应用错误，非应用错误按 Internal 处理
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: Internal, Message: "服务器内部错误", Err: err}
}
