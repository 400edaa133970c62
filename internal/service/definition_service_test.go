package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetianalytvynovska/tax-system/internal/model"
)

func TestDefinitionCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", model.RoleAdministrator)

	def, err := env.defs.Create(testCtx, admin, TaxDefinitionRequest{
		Name:    "ПДФО",
		Code:    "pdfo",
		Rate:    float64Ptr(18),
		DueDays: intPtr(30),
	})
	require.NoError(t, err)
	assert.NotZero(t, def.ID)

	// Duplicate code is rejected.
	_, err = env.defs.Create(testCtx, admin, TaxDefinitionRequest{
		Name: "Інший", Code: "pdfo", Rate: float64Ptr(5),
	})
	assert.Equal(t, KindValidation, KindOf(err))

	updated, err := env.defs.Update(testCtx, admin, def.ID, TaxDefinitionRequest{
		Name: "ПДФО (нова)", Code: "pdfo", Rate: float64Ptr(19.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 19.5, updated.Rate)
	assert.Nil(t, updated.DueDays)

	list, err := env.defs.List(testCtx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.defs.Delete(testCtx, admin, def.ID))
	_, err = env.defs.Update(testCtx, admin, def.ID, TaxDefinitionRequest{
		Name: "x", Code: "x", Rate: float64Ptr(1),
	})
	assert.Equal(t, KindNotFound, KindOf(err))

	actions := env.auditActions(t)
	assert.Contains(t, actions, model.ActionTaxCreate)
	assert.Contains(t, actions, model.ActionTaxUpdate)
	assert.Contains(t, actions, model.ActionTaxDelete)
}

func TestDefinitionValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", model.RoleAdministrator)

	cases := []TaxDefinitionRequest{
		{Code: "x", Rate: float64Ptr(1)},                              // no name
		{Name: "x", Rate: float64Ptr(1)},                              // no code
		{Name: "x", Code: "x"},                                        // no rate
		{Name: "x", Code: "x", Rate: float64Ptr(-1)},                  // negative rate
		{Name: "x", Code: "x", Rate: float64Ptr(1), DueDays: intPtr(-5)},
	}
	for _, req := range cases {
		_, err := env.defs.Create(testCtx, admin, req)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}
