// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"viralspark-api/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// Permission 权限类型
type Permission string

const (
	PermProjectRead   Permission = "project:read"
	PermProjectWrite  Permission = "project:write"
	PermBrainstormRun Permission = "brainstorm:run"
	PermAdminAccess   Permission = "admin:access"
)

// rolePermissions 角色-权限集，viewer 只读、member 不能进管理面
var rolePermissions = map[entity.UserRole]map[Permission]struct{}{
	entity.UserRoleAdmin:  permSet(PermProjectRead, PermProjectWrite, PermBrainstormRun, PermAdminAccess),
	entity.UserRoleMember: permSet(PermProjectRead, PermProjectWrite, PermBrainstormRun),
	entity.UserRoleViewer: permSet(PermProjectRead),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func roleAllows(role entity.UserRole, perm Permission) bool {
	_, ok := rolePermissions[role][perm]
	return ok
}

// RequirePermission 检查当前用户角色是否具有指定权限，否则返回 403
func RequirePermission(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.UserRole(c.GetString("role"))
		if role == "" {
			abortForbidden(c, "missing role in context")
			return
		}
		if !roleAllows(role, perm) {
			abortForbidden(c, "permission denied")
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理面路由的门槛
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(PermAdminAccess)
}

func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     http.StatusForbidden,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
