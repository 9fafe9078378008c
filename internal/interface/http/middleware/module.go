package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	moduleKey     = "module"
	permissionKey = "permission"
)

// SetModule 为请求标注权限描述符
// GET → <module>-read；POST、PUT → <module>-write；PATCH、DELETE → <module>-all
// 描述符目前没有任何地方校验，这里只记录，不拦截
func SetModule(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(moduleKey, module)
		if p := Permission(module, c.Request.Method); p != "" {
			c.Set(permissionKey, p)
		}
		c.Next()
	}
}

// Permission 根据HTTP方法计算权限描述符，其它方法返回空串
func Permission(module, method string) string {
	switch method {
	case http.MethodGet:
		return module + "-read"
	case http.MethodPost, http.MethodPut:
		return module + "-write"
	case http.MethodPatch, http.MethodDelete:
		return module + "-all"
	}
	return ""
}

// GetPermission 读取SetModule写入的描述符
func GetPermission(c *gin.Context) string {
	return c.GetString(permissionKey)
}
