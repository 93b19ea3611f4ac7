package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

func (e *testEnv) createProject(t *testing.T, callerID, name string, skillIDs ...string) *models.Project {
	t.Helper()

	project, err := e.projects.Create(context.Background(), callerID, CreateProjectRequest{
		Name:     name,
		SkillIDs: skillIDs,
	})
	require.NoError(t, err)
	return project
}

func skillIDs(project *models.Project) []string {
	ids := make([]string, len(project.Skills))
	for i, s := range project.Skills {
		ids[i] = s.ID
	}
	return ids
}

func TestProjectCreateForcesPendingAndStampsCreator(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")

	project := env.createProject(t, user.ID, "Thesis Repository")

	assert.Equal(t, models.StatusPending, project.Status)
	assert.Equal(t, user.ID, project.CreatedBy)

	var participants []models.UserProject
	require.NoError(t, env.db.Where("project_id = ?", project.ID).Find(&participants).Error)
	require.Len(t, participants, 1)
	assert.Equal(t, user.ID, participants[0].UserID)
}

func TestProjectCreateLinksSkills(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")
	skill := env.createSkill(t, user.ID, "Go")

	project := env.createProject(t, user.ID, "Thesis Repository", skill.ID)

	assert.ElementsMatch(t, []string{skill.ID}, skillIDs(project))
}

func TestProjectCreateRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.projects.Create(context.Background(), "", CreateProjectRequest{Name: "Thesis Repository"})
	assert.True(t, IsPermissionError(err))
}

func TestProjectListVisibility(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	other := env.registerUser(t, "other@example.com")
	admin := env.createAdmin(t)

	env.createProject(t, owner.ID, "Pending Project")
	approved := env.createProject(t, owner.ID, "Approved Project")
	status := models.StatusApproved
	_, err := env.projects.Update(context.Background(), owner.ID, approved.ID, UpdateProjectRequest{Status: &status})
	require.NoError(t, err)

	list := func(callerID string) []string {
		projects, _, err := env.projects.List(context.Background(), callerID, ProjectListFilters{}, models.Pagination{})
		require.NoError(t, err)
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Pending Project", "Approved Project"}, list(""))
	assert.ElementsMatch(t, []string{"Pending Project", "Approved Project"}, list(owner.ID))
	assert.ElementsMatch(t, []string{"Approved Project"}, list(other.ID))
	assert.ElementsMatch(t, []string{"Pending Project", "Approved Project"}, list(admin.ID))
}

func TestProjectGetHidesPendingFromOthers(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	other := env.registerUser(t, "other@example.com")
	admin := env.createAdmin(t)

	pending := env.createProject(t, owner.ID, "Pending Project")

	_, err := env.projects.GetByID(context.Background(), other.ID, pending.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	got, err := env.projects.GetByID(context.Background(), owner.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	_, err = env.projects.GetByID(context.Background(), admin.ID, pending.ID)
	assert.NoError(t, err)
}

func TestProjectUpdateForbiddenForNonOwner(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	other := env.registerUser(t, "other@example.com")

	project := env.createProject(t, owner.ID, "Thesis Repository")

	name := "Hijacked"
	_, err := env.projects.Update(context.Background(), other.ID, project.ID, UpdateProjectRequest{Name: &name})
	assert.True(t, IsPermissionError(err))
}

func TestProjectUpdateAllowedForAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	admin := env.createAdmin(t)

	project := env.createProject(t, owner.ID, "Thesis Repository")

	status := models.StatusApproved
	updated, err := env.projects.Update(context.Background(), admin.ID, project.ID, UpdateProjectRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
}

func TestProjectUpdateRejectsInvalidStatusTransition(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	project := env.createProject(t, owner.ID, "Thesis Repository")

	status := models.StatusCompleted
	_, err := env.projects.Update(context.Background(), owner.ID, project.ID, UpdateProjectRequest{Status: &status})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestProjectUpdateResyncsSkills(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	goSkill := env.createSkill(t, owner.ID, "Go")
	sqlSkill := env.createSkill(t, owner.ID, "SQL")
	gitSkill := env.createSkill(t, owner.ID, "Git")

	project := env.createProject(t, owner.ID, "Thesis Repository", goSkill.ID, sqlSkill.ID)

	// Duplicate ids in the payload collapse to one link.
	next := []string{sqlSkill.ID, gitSkill.ID, gitSkill.ID}
	updated, err := env.projects.Update(context.Background(), owner.ID, project.ID, UpdateProjectRequest{SkillIDs: &next})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{sqlSkill.ID, gitSkill.ID}, skillIDs(updated))

	// A present-but-empty list wipes every link.
	empty := []string{}
	updated, err = env.projects.Update(context.Background(), owner.ID, project.ID, UpdateProjectRequest{SkillIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Skills)
}

func TestProjectUpdateOmittedSkillsKeepLinks(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	skill := env.createSkill(t, owner.ID, "Go")
	project := env.createProject(t, owner.ID, "Thesis Repository", skill.ID)

	name := "Renamed"
	updated, err := env.projects.Update(context.Background(), owner.ID, project.ID, UpdateProjectRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.ElementsMatch(t, []string{skill.ID}, skillIDs(updated))
}

func TestProjectDeleteCascadesLinks(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	skill := env.createSkill(t, owner.ID, "Go")
	project := env.createProject(t, owner.ID, "Thesis Repository", skill.ID)

	require.NoError(t, env.projects.Delete(context.Background(), owner.ID, project.ID))

	_, err := env.projects.GetByID(context.Background(), owner.ID, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	var links []models.ProjectSkill
	require.NoError(t, env.db.Where("project_id = ?", project.ID).Find(&links).Error)
	assert.Empty(t, links)
}

func TestProjectDeleteUnknown(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")

	err := env.projects.Delete(context.Background(), owner.ID, "7c9f98a1-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectListBySkill(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	owner := env.registerUser(t, "owner@example.com")
	goSkill := env.createSkill(t, owner.ID, "Go")
	sqlSkill := env.createSkill(t, owner.ID, "SQL")

	withGo := env.createProject(t, owner.ID, "Go Project", goSkill.ID)
	env.createProject(t, owner.ID, "SQL Project", sqlSkill.ID)

	projects, _, err := env.projects.ListBySkill(context.Background(), owner.ID, goSkill.ID, models.Pagination{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, withGo.ID, projects[0].ID)
}

func TestProjectExportIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	reader := env.registerUser(t, "reader@example.com")
	admin := env.createAdmin(t)
	env.createProject(t, reader.ID, "Thesis Repository")

	_, err := env.projects.Export(context.Background(), reader.ID)
	assert.True(t, IsPermissionError(err))

	data, err := env.projects.Export(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestProjectStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	admin := env.createAdmin(t)

	pending := env.createProject(t, admin.ID, "Pending Project")
	approved := env.createProject(t, admin.ID, "Approved Project")
	status := models.StatusApproved
	_, err := env.projects.Update(context.Background(), admin.ID, approved.ID, UpdateProjectRequest{Status: &status})
	require.NoError(t, err)

	filter := models.StatusPending
	projects, _, err := env.projects.List(context.Background(), admin.ID, ProjectListFilters{Status: &filter}, models.Pagination{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, pending.ID, projects[0].ID)
}
