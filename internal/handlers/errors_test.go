package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, response.CodeInvalidCredentials, "Invalid username or password"},
		{"invalid token", services.ErrInvalidToken, http.StatusUnauthorized, response.CodeInvalidToken, ""},
		{"revoked", services.ErrTokenRevoked, http.StatusUnauthorized, response.CodeTokenRevoked, ""},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized, response.CodeUnauthorized, ""},
		{"forbidden", services.ErrForbidden, http.StatusForbidden, response.CodeForbidden, ""},
		{"duplicate", services.ErrDuplicateUsername, http.StatusConflict, response.CodeUsernameExists, ""},
		{"cannot delete", services.ErrCannotDelete, http.StatusBadRequest, response.CodeCannotDelete, "Cannot delete environment variable admin"},
		{"validation", &services.ValidationError{Field: "password", Message: "too short"}, http.StatusBadRequest, response.CodeInvalidInput, "password: too short"},
		{"user not found", services.ErrUserNotFound, http.StatusNotFound, response.CodeNotFound, "User not found"},
		{"wrapped work not found", fmt.Errorf("load: %w", services.ErrWorkNotFound), http.StatusNotFound, response.CodeNotFound, "Work not found"},
		{"generic not found", services.ErrNotFound, http.StatusNotFound, response.CodeNotFound, "Resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.err)
			if appErr == nil {
				t.Fatalf("toAppError(%v) = nil", tt.err)
			}
			if appErr.HTTPStatus != tt.status || appErr.Code != tt.code {
				t.Errorf("got %d %s, expected %d %s", appErr.HTTPStatus, appErr.Code, tt.status, tt.code)
			}
			if tt.msg != "" && appErr.Message != tt.msg {
				t.Errorf("message = %q, expected %q", appErr.Message, tt.msg)
			}
		})
	}

	if toAppError(errors.New("db exploded")) != nil {
		t.Error("unknown errors should not be mapped")
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/works", nil)

	respondError(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	body := w.Body.String()
	if want := `"code":"INTERNAL_ERROR"`; !strings.Contains(body, want) {
		t.Errorf("body %s should contain %s", body, want)
	}
	if strings.Contains(body, "10.0.0.5") {
		t.Errorf("internal error text leaked: %s", body)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		param string
		id    uint
		ok    bool
	}{
		{"42", 42, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"-1", 0, false},
		{"1.5", 0, false},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: tt.param}}

		id, ok := parseID(c, "user")
		if id != tt.id || ok != tt.ok {
			t.Errorf("parseID(%q) = (%d, %v), expected (%d, %v)", tt.param, id, ok, tt.id, tt.ok)
		}
		if !ok && !strings.Contains(w.Body.String(), response.CodeInvalidID) {
			t.Errorf("parseID(%q) should answer INVALID_ID, got %s", tt.param, w.Body.String())
		}
	}
}
