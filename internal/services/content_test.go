package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestWorkService_CRUD(t *testing.T) {
	svc := NewWorkService(newTestDB(t))
	ctx := context.Background()

	work, err := svc.Create(ctx, &CreateWorkRequest{Title: "Portfolio", Description: "This site"})
	require.NoError(t, err)
	assert.NotZero(t, work.ID)
	assert.Equal(t, []string{}, work.Tags)

	updated, err := svc.Update(ctx, work.ID, &UpdateWorkRequest{
		Title: strPtr("Portfolio v2"),
		Tags:  []string{"go", "gin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Portfolio v2", updated.Title)
	assert.Equal(t, "This site", updated.Description)

	got, err := svc.GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "gin"}, got.Tags)

	require.NoError(t, svc.Delete(ctx, work.ID))
	_, err = svc.GetByID(ctx, work.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, work.ID), ErrWorkNotFound)

	_, err = svc.Update(ctx, work.ID, &UpdateWorkRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkService_ListPagination(t *testing.T) {
	svc := NewWorkService(newTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, &CreateWorkRequest{Title: title, Description: "d"})
		require.NoError(t, err)
	}

	works, page, err := svc.List(ctx, &WorkListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, works, 2)
	assert.Equal(t, "three", works[0].Title, "newest first")
	assert.Equal(t, Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, *page)

	works, _, err = svc.List(ctx, &WorkListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, works, 1)
	assert.Equal(t, "one", works[0].Title)

	works, page, err = svc.List(ctx, &WorkListRequest{})
	require.NoError(t, err)
	assert.Len(t, works, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestSkillService_OrderedList(t *testing.T) {
	svc := NewSkillService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateSkillRequest{Title: "Backend", Icon: "server", Order: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateSkillRequest{Title: "Frontend", Icon: "browser", Order: 1, Details: []string{"Vue"}})
	require.NoError(t, err)

	skills, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Frontend", skills[0].Title)
	assert.Equal(t, []string{}, skills[1].Details)
}

func TestSocialMediaService_CRUD(t *testing.T) {
	svc := NewSocialMediaService(newTestDB(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, &CreateSocialMediaRequest{Name: "GitHub", Link: "https://github.com/example"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, &UpdateSocialMediaRequest{Name: strPtr("GitHub profile")})
	require.NoError(t, err)
	assert.Equal(t, "GitHub profile", updated.Name)
	assert.Equal(t, "https://github.com/example", updated.Link)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), ErrNotFound)
}

func TestSelfContentService(t *testing.T) {
	svc := NewSelfContentService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, &UpdateSelfContentRequest{About: strPtr("x")})
	assert.ErrorIs(t, err, ErrSelfContentNotFound)

	saved, err := svc.Save(ctx, &SaveSelfContentRequest{BriefIntro: "Hi", About: "Gopher"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, saved.HashTags)

	again, err := svc.Save(ctx, &SaveSelfContentRequest{BriefIntro: "Hello", HashTags: []string{"#go"}})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID, "save keeps a single row")

	updated, err := svc.Update(ctx, &UpdateSelfContentRequest{About: strPtr("Backend engineer")})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.BriefIntro)
	assert.Equal(t, "Backend engineer", updated.About)
	assert.Equal(t, []string{"#go"}, updated.HashTags)
}
