package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

func TestTaxSummaryAggregation(t *testing.T) {
	env := newTestEnv(t)
	summaries := NewSummaryService(
		repository.NewReportRepository(env.db),
		repository.NewUserRepository(env.db),
	)

	user := env.createUser(t, "user@example.com", model.RoleUser)
	taxA := env.createDefinition(t, "Податок А", "a", 10, nil)
	taxB := env.createDefinition(t, "Податок Б", "b", 5, nil)

	// Three reports of tax A with tax amounts 10+20+30, one of tax B with 5.
	for _, base := range []float64{100, 200, 300} {
		_, err := env.reports.Create(testCtx, user, CreateReportRequest{
			TaxDefinitionID: taxA.ID,
			BaseAmount:      float64Ptr(base),
		})
		require.NoError(t, err)
	}
	_, err := env.reports.Create(testCtx, user, CreateReportRequest{
		TaxDefinitionID: taxB.ID,
		BaseAmount:      float64Ptr(100),
	})
	require.NoError(t, err)

	rows, err := summaries.TaxSummary(testCtx, repository.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Податок А", rows[0].TaxType)
	assert.Equal(t, int64(3), rows[0].ReportCount)
	assert.Equal(t, 600.0, rows[0].TotalBase)
	assert.Equal(t, 60.0, rows[0].TotalTax)
	assert.Equal(t, 660.0, rows[0].TotalTotal)

	assert.Equal(t, "Податок Б", rows[1].TaxType)
	assert.Equal(t, int64(1), rows[1].ReportCount)
	assert.Equal(t, 5.0, rows[1].TotalTax)

	// Restricting to one definition drops the other bucket.
	rows, err = summaries.TaxSummary(testCtx, repository.ReportFilter{TaxDefinitionID: taxB.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Податок Б", rows[0].TaxType)
}

func TestDashboardBuckets(t *testing.T) {
	env := newTestEnv(t)
	summaries := NewSummaryService(
		repository.NewReportRepository(env.db),
		repository.NewUserRepository(env.db),
	)

	user := env.createUser(t, "user@example.com", model.RoleUser)
	env.createUser(t, "second@example.com", model.RoleUser)

	seed := func(status string) {
		require.NoError(t, env.db.Create(&model.TaxReport{
			UserID:  user.ID,
			Title:   "t",
			TaxType: "ПДФО",
			Status:  status,
		}).Error)
	}

	seed(model.StatusPlanned)
	seed("active") // legacy vocabulary maps onto planned
	seed(model.StatusSubmitted)
	seed("pending")
	seed(model.StatusUnderReview)
	seed(model.StatusCompleted)
	seed("completed")
	seed("щось дивне") // outside the vocabulary, no bucket

	dash, err := summaries.Dashboard(testCtx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), dash.UsersTotal)
	assert.Equal(t, int64(8), dash.ReportsTotal)
	assert.Equal(t, int64(2), dash.ReportsActive)
	assert.Equal(t, int64(3), dash.ReportsPending)
	assert.Equal(t, int64(2), dash.ReportsCompleted)

	require.NotEmpty(t, dash.LatestUsers)
	assert.Equal(t, "second@example.com", dash.LatestUsers[0].Email)
	require.Len(t, dash.LatestReports, 5)
	assert.Equal(t, "user@example.com", dash.LatestReports[0].UserEmail)
}

func TestAdminReportsIgnoreOwnerScope(t *testing.T) {
	env := newTestEnv(t)
	summaries := NewSummaryService(
		repository.NewReportRepository(env.db),
		repository.NewUserRepository(env.db),
	)

	alice := env.createUser(t, "alice@example.com", model.RoleUser)
	bob := env.createUser(t, "bob@example.com", model.RoleUser)
	def := env.createDefinition(t, "ПДФО", "pdfo", 18, nil)

	for _, u := range []*model.User{alice, bob} {
		_, err := env.reports.Create(testCtx, u, CreateReportRequest{
			TaxDefinitionID: def.ID,
			BaseAmount:      float64Ptr(100),
		})
		require.NoError(t, err)
	}

	// UserID set but AdminView overrides it: both owners appear.
	rows, err := summaries.AdminReports(testCtx, repository.ReportFilter{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	emails := []string{rows[0].UserEmail, rows[1].UserEmail}
	assert.Contains(t, emails, "alice@example.com")
	assert.Contains(t, emails, "bob@example.com")
}
