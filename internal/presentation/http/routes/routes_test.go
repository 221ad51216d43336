package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/config"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/storage"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/handler"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/middleware"
	"github.com/ezequiel-pelliza/cajaclara/pkg/printer"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	ownerPIN   = "9999"
	cashierPIN = "1111"
)

type testServer struct {
	router *gin.Engine
	store  *storage.Store
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewBoltDB(filepath.Join(t.TempDir(), "pos.db"), zap.NewNop())
	require.NoError(t, err)
	store := storage.NewBoltStore(db)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	catalog := service.NewCatalogService(store.MenuCategories, store.MenuItems, nil)
	expenses := service.NewExpenseService(store.ExpenseCategories, store.Ledger, nil)
	require.NoError(t, catalog.EnsureDefaults(ctx))
	require.NoError(t, expenses.EnsureDefaults(ctx))

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	auth, err := service.NewAuthService(ownerPIN, cashierPIN, jwtManager, nil)
	require.NoError(t, err)

	nullPrinter, err := printer.New(printer.Options{Type: "none"})
	require.NoError(t, err)

	terminals := service.NewTerminalService(catalog, store.Ledger, store.Tabs, enum.PaymentCash, nil)
	t.Cleanup(func() { _ = terminals.Shutdown(context.Background()) })

	limiter := middleware.NewTerminalRateLimiter(middleware.RateLimiterConfigFromWindow(1000, 1))
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{
		App:     config.AppConfig{Name: "cajaclara-test"},
		Storage: config.StorageConfig{Driver: "bolt"},
		POS:     config.POSConfig{IdempotencyTTL: time.Hour},
	}

	router := Setup(&Handlers{
		Auth:      handler.NewAuthHandler(auth),
		Pos:       handler.NewPosHandler(terminals, catalog),
		Printer:   handler.NewPrinterHandler(service.NewPrinterService(nullPrinter, store.Ledger, "none", "TEST", "$", nil)),
		Catalog:   handler.NewCatalogHandler(catalog),
		Expense:   handler.NewExpenseHandler(expenses),
		History:   handler.NewHistoryHandler(service.NewHistoryService(store.Ledger, store.ExpenseCategories)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(store.Ledger, store.ExpenseCategories)),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: store.Idempotency,
		RateLimiter:     limiter,
		Logger:          zap.NewNop(),
	})

	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) login(t *testing.T, pin, terminal string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/auth/pin", "", gin.H{"pin": pin, "terminal_id": terminal}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out service.LoginOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)
	assert.Equal(t, terminal, out.TerminalID)
	return out.AccessToken
}

func (s *testServer) firstMenuItem(t *testing.T, token string) string {
	t.Helper()
	w, env := s.do(t, http.MethodGet, "/api/v1/pos/menu", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var menu struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &menu))
	require.NotEmpty(t, menu.Items)
	return menu.Items[0].ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"bolt"`)
}

func TestLoginRejectsUnknownPIN(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/auth/pin", "", gin.H{"pin": "0000"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/pos/session", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCashierAreas(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, cashierPIN, "front")

	tests := []struct {
		name string
		path string
		want int
	}{
		{"pos", "/api/v1/pos/session", http.StatusOK},
		{"expenses", "/api/v1/expense-categories", http.StatusForbidden},
		{"catalog", "/api/v1/catalog/items", http.StatusForbidden},
		{"history", "/api/v1/history", http.StatusForbidden},
		{"dashboard", "/api/v1/dashboard", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := s.do(t, http.MethodGet, tt.path, token, nil, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestOwnerSeesEveryArea(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, ownerPIN, "office")

	w, env := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Role  string   `json:"role"`
		Areas []string `json:"areas"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "owner", me.Role)
	assert.Len(t, me.Areas, 5)

	w, _ = s.do(t, http.MethodGet, "/api/v1/dashboard", token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestConfirmEmptyCart(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, cashierPIN, "front")

	w, env := s.do(t, http.MethodPost, "/api/v1/pos/session/confirm", token, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "cart is empty", env.Message)
}

func TestConfirmSaleIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, cashierPIN, "front")
	productID := s.firstMenuItem(t, token)

	w, _ := s.do(t, http.MethodPost, "/api/v1/pos/session/items", token, gin.H{"product_id": productID}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	key := map[string]string{middleware.IdempotencyKeyHeader: "confirm-1"}
	first, firstEnv := s.do(t, http.MethodPost, "/api/v1/pos/session/confirm", token, nil, key)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	var created struct {
		Sale struct {
			ID         string `json:"id"`
			TotalAfter string `json:"total_after"`
		} `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(firstEnv.Data, &created))
	require.NotEmpty(t, created.Sale.ID)

	replay, replayEnv := s.do(t, http.MethodPost, "/api/v1/pos/session/confirm", token, nil, key)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, string(firstEnv.Data), string(replayEnv.Data))

	sales, err := s.store.Ledger.ListSales(context.Background(), repository.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	// without a key the emptied cart is validated again
	again, _ := s.do(t, http.MethodPost, "/api/v1/pos/session/confirm", token, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, again.Code)
}

func TestTerminalsKeepSeparateCarts(t *testing.T) {
	s := newTestServer(t)
	front := s.login(t, cashierPIN, "front")
	bar := s.login(t, cashierPIN, "bar")
	productID := s.firstMenuItem(t, front)

	w, _ := s.do(t, http.MethodPost, "/api/v1/pos/session/items", front, gin.H{"product_id": productID}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/pos/session/confirm", bar, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/pos/session/confirm", front, nil, nil)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSetChannelRequiresChannel(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, cashierPIN, "front")

	w, _ := s.do(t, http.MethodPut, "/api/v1/pos/session/channel", token, gin.H{
		"channel": "delivery", "customer_name": "Ana",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPut, "/api/v1/pos/session/channel", token, gin.H{"customer_name": "Beto"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/v1/pos/session", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Channel string `json:"channel"`
		Details struct {
			CustomerName string `json:"customer_name"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "delivery", view.Channel)
	assert.Equal(t, "Ana", view.Details.CustomerName)
}

func TestSetDiscountRejectsUnknownMode(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, cashierPIN, "front")

	w, _ := s.do(t, http.MethodPut, "/api/v1/pos/session/discount", token, gin.H{"mode": 9, "value": "50"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/v1/pos/session/discount", token, gin.H{"mode": "percent", "value": "10"}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
