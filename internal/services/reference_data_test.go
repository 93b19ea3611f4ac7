package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/models"
)

func TestCareerCrudIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	reader := env.registerUser(t, "reader@example.com")
	admin := env.createAdmin(t)

	_, err := env.careers.Create(context.Background(), reader.ID, CreateCareerRequest{Name: "Software"})
	assert.True(t, IsPermissionError(err))

	career, err := env.careers.Create(context.Background(), admin.ID, CreateCareerRequest{Name: "Software"})
	require.NoError(t, err)

	got, err := env.careers.GetByID(context.Background(), career.ID)
	require.NoError(t, err)
	assert.Equal(t, "Software", got.Name)

	updated, err := env.careers.Update(context.Background(), admin.ID, career.ID, UpdateCareerRequest{Name: "Software Engineering"})
	require.NoError(t, err)
	assert.Equal(t, "Software Engineering", updated.Name)

	require.NoError(t, env.careers.Delete(context.Background(), admin.ID, career.ID))

	_, err = env.careers.GetByID(context.Background(), career.ID)
	assert.ErrorIs(t, err, ErrCareerNotFound)
}

func TestCareerListIsSeeded(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	careers, meta, err := env.careers.List(context.Background(), models.Pagination{})
	require.NoError(t, err)
	assert.NotEmpty(t, careers)
	assert.Equal(t, int64(len(careers)), meta.Total)
}

func TestPeriodCreateDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	admin := env.createAdmin(t)

	_, err := env.periods.Create(context.Background(), admin.ID, CreatePeriodRequest{Name: "Abril - Agosto 2026"})
	require.NoError(t, err)

	_, err = env.periods.Create(context.Background(), admin.ID, CreatePeriodRequest{Name: "Abril - Agosto 2026"})
	assert.ErrorIs(t, err, ErrPeriodNameTaken)
}

func TestPeriodCreateForbiddenForReader(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	reader := env.registerUser(t, "reader@example.com")

	_, err := env.periods.Create(context.Background(), reader.ID, CreatePeriodRequest{Name: "Abril - Agosto 2026"})
	assert.True(t, IsPermissionError(err))
}

func TestPeriodDelete(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	admin := env.createAdmin(t)

	period, err := env.periods.Create(context.Background(), admin.ID, CreatePeriodRequest{Name: "Abril - Agosto 2026"})
	require.NoError(t, err)

	require.NoError(t, env.periods.Delete(context.Background(), admin.ID, period.ID))

	err = env.periods.Delete(context.Background(), admin.ID, period.ID)
	assert.ErrorIs(t, err, ErrPeriodNotFound)
}
