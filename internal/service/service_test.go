package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tetianalytvynovska/tax-system/internal/database"
	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

// newTestDB opens an in-memory database shared by a single connection so
// every repository sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db      *gorm.DB
	reports ReportService
	defs    TaxDefinitionService
	feed    *capturingFeed
}

// capturingFeed records published events instead of broadcasting them.
type capturingFeed struct {
	events []string
}

func (f *capturingFeed) PublishReportEvent(eventType string, _ *model.TaxReport) {
	f.events = append(f.events, eventType)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	logger := zap.NewNop()
	feed := &capturingFeed{}

	reportRepo := repository.NewReportRepository(db)
	defRepo := repository.NewTaxDefinitionRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txm := repository.NewTransactionManager(db)

	return &testEnv{
		db:      db,
		reports: NewReportService(reportRepo, defRepo, userRepo, txm, auditRepo, feed, logger),
		defs:    NewTaxDefinitionService(defRepo, auditRepo, logger),
		feed:    feed,
	}
}

func (e *testEnv) createUser(t *testing.T, email, role string) *model.User {
	t.Helper()

	user := model.User{
		Name:         "Test User",
		Email:        email,
		IPN:          "1234567890",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

func (e *testEnv) createDefinition(t *testing.T, name, code string, rate float64, dueDays *int) *model.TaxDefinition {
	t.Helper()

	def := model.TaxDefinition{Name: name, Code: code, Rate: rate, DueDays: dueDays}
	require.NoError(t, e.db.Create(&def).Error)
	return &def
}

func (e *testEnv) auditActions(t *testing.T) []string {
	t.Helper()

	var actions []string
	require.NoError(t, e.db.Model(&model.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	return actions
}

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }

var testCtx = context.Background()
