// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

const (
	// 通用错误 (1xxx)
	CodeInternalError ErrorCode = "1007"

	// 资源错误 (3xxx)
	CodeTenantNotFound ErrorCode = "3004"

	// 业务错误 (4xxx)
	CodeCompletionFailed ErrorCode = "4001"
	CodeResetFailed      ErrorCode = "4002"
	CodeQuotaExceeded    ErrorCode = "4004"
	CodePlanRestricted   ErrorCode = "4005"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeLLMProviderError ErrorCode = "5004"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatusFor(code),
	}
}

// Wrap 包装底层错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatusFor(code),
		Err:        err,
	}
}

// WithDetail 附加错误详情
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// httpStatusFor 错误码到 HTTP 状态码的映射。
// 完成与重置失败对客户端是重试场景，按 500 返回。
func httpStatusFor(code ErrorCode) int {
	switch code {
	case CodePlanRestricted:
		return http.StatusForbidden
	case CodeTenantNotFound:
		return http.StatusNotFound
	case CodeQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
