// Package service 提供领域层的上下文辅助
package service

import (
	"context"
	"strings"
)

type workflowKey struct{}
type providerKey struct{}

// WithWorkflowProvider 把工作流名与 provider 写入 context，
// 供生成链路内的日志定位调用来源。空值不写入。
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	if w := strings.TrimSpace(workflow); w != "" {
		ctx = context.WithValue(ctx, workflowKey{}, w)
	}
	if p := strings.TrimSpace(provider); p != "" {
		ctx = context.WithValue(ctx, providerKey{}, p)
	}
	return ctx
}

// WorkflowFromContext 读取工作流名，未设置时返回 unknown
func WorkflowFromContext(ctx context.Context) string {
	return stringFrom(ctx, workflowKey{})
}

// ProviderFromContext 读取 provider 名，未设置时返回 unknown
func ProviderFromContext(ctx context.Context) string {
	return stringFrom(ctx, providerKey{})
}

func stringFrom(ctx context.Context, key any) string {
	if s, ok := ctx.Value(key).(string); ok && s != "" {
		return s
	}
	return "unknown"
}
