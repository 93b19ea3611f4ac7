package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/models"
)

func TestSkillCreateStampsCreator(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")

	skill, err := env.skills.Create(context.Background(), user.ID, CreateSkillRequest{
		Name:        "Go",
		Description: "Backend development",
		Details:     json.RawMessage(`{"level":"intermediate"}`),
	})
	require.NoError(t, err)

	require.NotNil(t, skill.CreatedBy)
	assert.Equal(t, user.ID, *skill.CreatedBy)
	assert.NotEmpty(t, skill.ID)
}

func TestSkillCreateDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	env.createSkill(t, user.ID, "Go")

	_, err := env.skills.Create(context.Background(), user.ID, CreateSkillRequest{Name: "Go"})
	assert.ErrorIs(t, err, ErrSkillNameTaken)
}

func TestSkillUpdateOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	creator := env.registerUser(t, "creator@example.com")
	other := env.registerUser(t, "other@example.com")
	admin := env.createAdmin(t)

	skill := env.createSkill(t, creator.ID, "Go")

	name := "Golang"
	_, err := env.skills.Update(context.Background(), other.ID, skill.ID, UpdateSkillRequest{Name: &name})
	assert.True(t, IsPermissionError(err))

	updated, err := env.skills.Update(context.Background(), creator.ID, skill.ID, UpdateSkillRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Name)

	name = "Go (backend)"
	updated, err = env.skills.Update(context.Background(), admin.ID, skill.ID, UpdateSkillRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Go (backend)", updated.Name)
}

func TestSkillUpdateUnknown(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")

	name := "Go"
	_, err := env.skills.Update(context.Background(), user.ID, "9d2f98a1-0000-4000-8000-000000000000", UpdateSkillRequest{Name: &name})
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestSkillLinkToProject(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	skill := env.createSkill(t, user.ID, "Go")
	project := env.createProject(t, user.ID, "Thesis Repository")

	link, err := env.skills.LinkToProject(context.Background(), user.ID, LinkSkillRequest{
		ProjectID: project.ID,
		SkillID:   skill.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, project.ID, link.ProjectID)
	assert.Equal(t, skill.ID, link.SkillID)

	_, err = env.skills.LinkToProject(context.Background(), user.ID, LinkSkillRequest{
		ProjectID: project.ID,
		SkillID:   skill.ID,
	})
	assert.ErrorIs(t, err, ErrProjectSkillExists)
}

func TestSkillLinkUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	skill := env.createSkill(t, user.ID, "Go")
	project := env.createProject(t, user.ID, "Thesis Repository")

	_, err := env.skills.LinkToProject(context.Background(), user.ID, LinkSkillRequest{
		ProjectID: "9d2f98a1-0000-4000-8000-000000000000",
		SkillID:   skill.ID,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = env.skills.LinkToProject(context.Background(), user.ID, LinkSkillRequest{
		ProjectID: project.ID,
		SkillID:   "9d2f98a1-0000-4000-8000-000000000001",
	})
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestSkillDeleteCascadesLinks(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	skill := env.createSkill(t, user.ID, "Go")
	env.createProject(t, user.ID, "Thesis Repository", skill.ID)

	require.NoError(t, env.skills.Delete(context.Background(), user.ID, skill.ID))

	_, err := env.skills.GetByID(context.Background(), skill.ID)
	assert.ErrorIs(t, err, ErrSkillNotFound)

	var links []models.ProjectSkill
	require.NoError(t, env.db.Where("skill_id = ?", skill.ID).Find(&links).Error)
	assert.Empty(t, links)
}

func TestSkillListByProject(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	goSkill := env.createSkill(t, user.ID, "Go")
	env.createSkill(t, user.ID, "SQL")
	project := env.createProject(t, user.ID, "Thesis Repository", goSkill.ID)

	skills, err := env.skills.ListByProject(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, goSkill.ID, skills[0].ID)

	_, err = env.skills.ListByProject(context.Background(), "9d2f98a1-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSkillList(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	env.createSkill(t, user.ID, "Go")
	env.createSkill(t, user.ID, "SQL")

	skills, meta, err := env.skills.List(context.Background(), models.Pagination{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, skills, 1)
	assert.Equal(t, int64(2), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}
