package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tetianalytvynovska/tax-system/internal/database"
	"github.com/tetianalytvynovska/tax-system/internal/middleware"
	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
	"github.com/tetianalytvynovska/tax-system/internal/service"
)

type failingMailer struct{}

func (failingMailer) Send(string, string, string) error { return fmt.Errorf("no transport") }

// newTestServer wires the full API against an in-memory database, mirroring
// the production composition in cmd/api.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedAdmin(db, "Admin", "admin@example.com", "0000000000", "0987654321"))

	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	defRepo := repository.NewTaxDefinitionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	twoFactorRepo := repository.NewTwoFactorRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txm := repository.NewTransactionManager(db)

	authService := service.NewAuthService(userRepo, twoFactorRepo, auditRepo, failingMailer{}, string(middleware.GetJWTSecret()), logger)
	defService := service.NewTaxDefinitionService(defRepo, auditRepo, logger)
	reportService := service.NewReportService(reportRepo, defRepo, userRepo, txm, auditRepo, nil, logger)
	summaryService := service.NewSummaryService(reportRepo, userRepo)
	auditService := service.NewAuditService(auditRepo)

	router := gin.New()
	api := router.Group("/api")
	NewAuthHandler(authService, db, logger).RegisterRoutes(api)
	NewReportHandler(reportService, defService, db, logger).RegisterRoutes(api)
	NewAdminHandler(defService, summaryService, auditService, userRepo, db, logger).RegisterRoutes(api)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestRegisterCreateAndSignFlow(t *testing.T) {
	router, db := newTestServer(t)

	def := model.TaxDefinition{Name: "ПДФО", Code: "pdfo", Rate: 18, DueDays: intPtr(30)}
	require.NoError(t, db.Create(&def).Error)

	// Register a user.
	w := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"name": "Іван", "email": "ivan@example.com", "ipn": "1234567890", "password": "пароль123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, w, &auth)
	require.NotEmpty(t, auth.Token)

	// The password hash never leaks through JSON.
	assert.NotContains(t, w.Body.String(), "password_hash")

	// Create a report.
	w = doJSON(t, router, http.MethodPost, "/api/tax/reports", auth.Token, gin.H{
		"taxDefinitionId": def.ID, "baseAmount": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created service.CreateReportResponse
	decode(t, w, &created)
	assert.Equal(t, fmt.Sprintf("%d/0001", time.Now().Year()), created.DeclarationNumber)

	// Listing returns the derived snapshot.
	w = doJSON(t, router, http.MethodGet, "/api/tax/reports", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []repository.ReportRow
	decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, 180.0, rows[0].TaxAmount)
	assert.Equal(t, 1180.0, rows[0].TotalAmount)

	// Sign and submit.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/tax/reports/%d/sign-send", created.ID), auth.Token, gin.H{
		"key": "секрет123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var signed service.SignReportResponse
	decode(t, w, &signed)
	assert.Equal(t, model.StatusSubmitted, signed.Status)
	assert.Len(t, signed.SignatureHash, 64)

	// Editing a submitted report fails with the Ukrainian message.
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/tax/reports/%d", created.ID), auth.Token, gin.H{
		"taxDefinitionId": def.ID, "baseAmount": 500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "не можна змінити")
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"name": "Іван", "email": "ivan@example.com", "ipn": "1234567890", "password": "пароль123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var auth struct {
		Token string `json:"token"`
	}
	decode(t, w, &auth)

	for _, path := range []string{
		"/api/admin/users",
		"/api/admin/audit",
		"/api/admin/dashboard",
		"/api/admin/tax-summary",
		"/api/admin/taxes",
		"/api/admin/reports/export/csv",
	} {
		w := doJSON(t, router, http.MethodGet, path, auth.Token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	// Unauthenticated requests are rejected earlier.
	w = doJSON(t, router, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminTwoFactorLoginOverHTTP(t *testing.T) {
	router, db := newTestServer(t)

	// The seeded admin gets a challenge, not a token; mail delivery failing
	// does not break the flow.
	w := doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email": "admin@example.com", "password": "0987654321",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var challenge map[string]any
	decode(t, w, &challenge)
	// The web client gates the 2FA screen on this exact key.
	assert.Equal(t, true, challenge["requires2FA"])

	var row model.AdminTwoFactor
	require.NoError(t, db.First(&row).Error)

	w = doJSON(t, router, http.MethodPost, "/api/admin/verify-2fa", "", gin.H{
		"email": "admin@example.com", "code": row.Code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var auth struct {
		Token string `json:"token"`
	}
	decode(t, w, &auth)
	require.NotEmpty(t, auth.Token)

	// The admin token opens the admin surface.
	w = doJSON(t, router, http.MethodGet, "/api/admin/dashboard", auth.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// CSV export answers with the semicolon header even when empty.
	w = doJSON(t, router, http.MethodGet, "/api/admin/reports/export/csv", auth.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "id;declaration_number;user_email")
}

func TestInvertedDateRangeRejected(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"name": "Іван", "email": "ivan@example.com", "ipn": "1234567890", "password": "пароль123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var auth struct {
		Token string `json:"token"`
	}
	decode(t, w, &auth)

	w = doJSON(t, router, http.MethodGet, "/api/tax/reports?fromDate=2025-06-01&toDate=2025-01-01", auth.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func intPtr(v int) *int { return &v }
