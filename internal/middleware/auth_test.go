package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger_service/internal/utils"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ledger", BearerAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": c.MustGet("userID"), "error": nil})
	})
	return r
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/ledger", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMissingCredential(t *testing.T) {
	router := newProtectedRouter()
	for _, header := range []string{"", "Basic abc", "Bearer"} {
		w := request(router, header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, w.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if resp["error"] != "Missing credential" {
			t.Fatalf("header %q: error = %v", header, resp["error"])
		}
	}
}

func TestInvalidCredential(t *testing.T) {
	router := newProtectedRouter()
	// Garbage token and token signed with a different secret both normalize
	// to the same invalid-credential failure
	otherSecret, _ := utils.GenerateJWT(9, "other-secret")
	for _, token := range []string{"garbage", otherSecret} {
		w := request(router, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d, want 401", token, w.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if resp["error"] != "Invalid credential" {
			t.Fatalf("token %q: error = %v", token, resp["error"])
		}
	}
}

func TestValidCredentialResolvesPrincipal(t *testing.T) {
	router := newProtectedRouter()
	token, err := utils.GenerateJWT(42, testSecret)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	w := request(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp["data"] != float64(42) {
		t.Fatalf("principal = %v, want 42", resp["data"])
	}
}
