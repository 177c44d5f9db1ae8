// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	apperrors "viralspark-api/pkg/errors"
)

// FromError 把应用错误映射为统一错误响应。
// 非 AppError 一律按 500 处理，不向客户端泄露内部细节。
func FromError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}
	InternalError(c, "internal server error")
}
