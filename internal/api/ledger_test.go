package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger_service/internal/domain"
	"ledger_service/internal/ledger"
	"ledger_service/internal/middleware"
	"ledger_service/internal/moderation"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ---- helpers ----

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Wallet{}, &domain.Transaction{}, &domain.Story{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeAuth stands in for the bearer verifier and seeds the context principal
func fakeAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newLedgerRouter(t *testing.T, userID uint) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	dispatcher := ledger.NewDispatcher(ledger.NewGormStore(db), moderation.NewMockClassifier())
	r := gin.New()
	r.Use(middleware.CORS())
	r.POST("/ledger", fakeAuth(userID), LedgerHandler(dispatcher, nil))
	return r
}

func doLedger(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/ledger", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func envelopeOf(t *testing.T, w *httptest.ResponseRecorder) (any, any) {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	data, hasData := resp["data"]
	errField, hasErr := resp["error"]
	if !hasData || !hasErr {
		t.Fatalf("response is not a {data, error} envelope: %s", w.Body.String())
	}
	return data, errField
}

// ---- CORS ----

func TestPreflightAnsweredUnconditionally(t *testing.T) {
	router := newLedgerRouter(t, 1)
	req, _ := http.NewRequest(http.MethodOptions, "/ledger", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "authorization") {
		t.Fatalf("allow-headers = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("allow-methods = %q", got)
	}
}

// ---- status mapping ----

func TestMalformedEnvelopeIsBadRequest(t *testing.T) {
	router := newLedgerRouter(t, 1)
	for _, body := range []string{"not json", `{"table":"transactions"}`, `{"operation":"select"}`} {
		if w := doLedger(router, body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestUnsupportedOperationIsBadRequest(t *testing.T) {
	router := newLedgerRouter(t, 1)
	w := doLedger(router, `{"operation":"truncate","table":"transactions"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateWithoutIdentifierIsBadRequest(t *testing.T) {
	router := newLedgerRouter(t, 1)
	w := doLedger(router, `{"operation":"update","table":"transactions","data":{"amount":1}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestInsertAndWalletRoundTrip(t *testing.T) {
	router := newLedgerRouter(t, 1)
	w := doLedger(router, `{"operation":"insert","table":"transactions","data":{"type":"earn","amount":10,"reason":"daily","user_id":999}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("insert status = %d, want 200: %s", w.Code, w.Body.String())
	}
	data, errField := envelopeOf(t, w)
	if errField != nil {
		t.Fatalf("insert error = %v", errField)
	}
	row := data.(map[string]any)
	if row["user_id"] != float64(1) {
		t.Fatalf("stored user_id = %v, want the verified principal", row["user_id"])
	}
	// get_wallet reflects the credit
	w = doLedger(router, `{"operation":"get_wallet"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("get_wallet status = %d", w.Code)
	}
	data, errField = envelopeOf(t, w)
	if errField != nil {
		t.Fatalf("get_wallet error = %v", errField)
	}
	if wallet := data.(map[string]any); wallet["balance"] != float64(10) {
		t.Fatalf("balance = %v, want 10", wallet["balance"])
	}
}

func TestForeignMutationIsForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	dispatcher := ledger.NewDispatcher(ledger.NewGormStore(db), moderation.NewMockClassifier())
	// Two routers over the same store, one per principal
	asA, asB := gin.New(), gin.New()
	asA.POST("/ledger", fakeAuth(1), LedgerHandler(dispatcher, nil))
	asB.POST("/ledger", fakeAuth(2), LedgerHandler(dispatcher, nil))

	w := doLedger(asA, `{"operation":"insert","table":"transactions","data":{"type":"earn","amount":10,"reason":"daily"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("insert status = %d", w.Code)
	}
	data, _ := envelopeOf(t, w)
	id := data.(map[string]any)["id"].(float64)

	w = doLedger(asB, `{"operation":"update","table":"transactions","data":{"amount":999},"filters":{"id":`+jsonNumber(id)+`}}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign update status = %d, want 403: %s", w.Code, w.Body.String())
	}
	// A's record is unchanged
	w = doLedger(asA, `{"operation":"select","table":"transactions"}`)
	data, _ = envelopeOf(t, w)
	rows := data.([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["amount"] != float64(10) {
		t.Fatalf("record changed after denied update: %v", rows)
	}
}

// Row-level store failures stay inside a 200 envelope
func TestInsufficientBalanceStaysInEnvelope(t *testing.T) {
	router := newLedgerRouter(t, 1)
	w := doLedger(router, `{"operation":"insert","table":"transactions","data":{"type":"spend","amount":10,"reason":"sticker"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with envelope error", w.Code)
	}
	data, errField := envelopeOf(t, w)
	if data != nil {
		t.Fatalf("data = %v, want nil", data)
	}
	msg, ok := errField.(string)
	if !ok || !strings.Contains(msg, "insufficient balance") {
		t.Fatalf("error = %v, want insufficient balance message", errField)
	}
}

func TestUnknownTableStaysInEnvelope(t *testing.T) {
	router := newLedgerRouter(t, 1)
	w := doLedger(router, `{"operation":"select","table":"secrets"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with envelope error", w.Code)
	}
	data, errField := envelopeOf(t, w)
	if data != nil {
		t.Fatalf("data = %v, want nil", data)
	}
	if msg, ok := errField.(string); !ok || !strings.Contains(msg, "unknown table") {
		t.Fatalf("error = %v, want unknown table message", errField)
	}
}

func TestUnknownColumnFilterStaysInEnvelope(t *testing.T) {
	router := newLedgerRouter(t, 1)
	w := doLedger(router, `{"operation":"select","table":"transactions","filters":{"colour":"red"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with envelope error", w.Code)
	}
	data, errField := envelopeOf(t, w)
	if data != nil {
		t.Fatalf("data = %v, want nil", data)
	}
	if msg, ok := errField.(string); !ok || !strings.Contains(msg, "unknown column") {
		t.Fatalf("error = %v, want unknown column message", errField)
	}
}

// jsonNumber renders a float64 id the way a JSON client would send it
func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
