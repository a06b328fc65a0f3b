package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/logger"
)

const maxAuditBody = 2000

// maxAuditCapture bounds how much of a request body the audit trail buffers.
// Larger bodies are passed through untouched and not recorded.
const maxAuditCapture = 64 << 10

var sensitiveKeys = map[string]bool{
	"password":     true,
	"oldpassword":  true,
	"newpassword":  true,
	"secret":       true,
	"token":        true,
	"accesstoken":  true,
	"refreshtoken": true,
}

// AuditLog records write operations (POST/PUT/DELETE) to the audit trail
// after the handler has run.
func AuditLog(audit *services.SystemLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		var body string
		if orig := c.Request.Body; orig != nil {
			raw, _ := io.ReadAll(io.LimitReader(orig, maxAuditCapture+1))
			c.Request.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), orig), Closer: orig}
			if len(raw) > maxAuditCapture {
				body = "[oversized body omitted]"
			} else {
				body = maskSensitiveFields(raw)
			}
		}

		c.Next()

		status := c.Writer.Status()
		level := services.LogLevelInfo
		if status >= http.StatusBadRequest {
			level = services.LogLevelWarning
		}

		var uid *uint
		if p := GetPrincipal(c); p != nil && !p.IsEnvAdmin() {
			id := p.ID
			uid = &id
		}

		module, action := parseRouteInfo(c.FullPath(), method)
		audit.Record(c.Request.Context(), services.AuditEntry{
			Level:     level,
			Module:    module,
			Action:    action,
			Message:   formatAuditMessage(GetUsername(c), method, c.Request.URL.Path, status),
			UserID:    uid,
			Username:  GetUsername(c),
			RequestID: logger.GetRequestID(c),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Extra: map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"status": status,
				"body":   body,
			},
		})
	}
}

// replayBody re-serves the captured prefix before the unread rest of the body.
type replayBody struct {
	io.Reader
	io.Closer
}

// parseRouteInfo derives module and action from a route pattern,
// e.g. "/api/admin/users/:id" + DELETE gives ("users", "delete").
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	path = strings.TrimPrefix(path, "admin/")

	module, _, _ = strings.Cut(path, "/")
	if module == "" {
		module = "unknown"
	}

	switch method {
	case http.MethodPost:
		action = "create"
		if strings.HasSuffix(path, "/revoke-sessions") {
			action = "revoke-sessions"
		}
	case http.MethodPut:
		action = "update"
	case http.MethodDelete:
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return module, action
}

func formatAuditMessage(username, method, path string, status int) string {
	outcome := "ok"
	if status < 200 || status >= 300 {
		outcome = "failed"
	}
	if username == "" {
		username = "anonymous"
	}
	return username + " " + method + " " + path + " " + outcome
}

// maskSensitiveFields hides credential values in a JSON body and truncates
// it. Bodies that are not JSON objects are dropped.
func maskSensitiveFields(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "[non-JSON body omitted]"
	}
	maskMap(doc)

	masked, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	s := string(masked)
	if len(s) > maxAuditBody {
		s = s[:maxAuditBody] + "...[truncated]"
	}
	return s
}

func maskMap(m map[string]interface{}) {
	for k, v := range m {
		normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(k))
		if sensitiveKeys[normalized] {
			m[k] = "***"
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			maskMap(nested)
		}
	}
}
