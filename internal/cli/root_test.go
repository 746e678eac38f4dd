package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/agenda/internal/domain"
	"example.com/agenda/internal/export"
	"example.com/agenda/internal/persistence/jsonfile"
)

func newDeps(t *testing.T) (Deps, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := jsonfile.NewRepository(dir)
	require.NoError(t, err)
	exporter, err := export.New(dir)
	require.NoError(t, err)
	return Deps{
		Service:  domain.NewService(repo),
		Exporter: exporter,
		Today:    func() domain.Date { return domain.NewDate(2024, time.May, 1) },
	}, dir
}

func run(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(deps)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAddListCompleteExport(t *testing.T) {
	deps, dir := newDeps(t)

	out, err := run(t, deps, "add", "--title", "Study", "--date", "2024-05-01", "--category", "School")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, deps, "list", "--pending")
	require.NoError(t, err)
	require.Contains(t, out, id)
	require.Contains(t, out, "Study")

	_, err = run(t, deps, "complete", id)
	require.NoError(t, err)

	out, err = run(t, deps, "list", "--completed", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"Completada": true`)

	out, err = run(t, deps, "export", id, "--format", "DOCX")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Study-20240501.docx"), strings.TrimSpace(out))

	_, err = run(t, deps, "restore", id)
	require.NoError(t, err)
	_, err = run(t, deps, "delete", id)
	require.NoError(t, err)

	out, err = run(t, deps, "list")
	require.NoError(t, err)
	require.NotContains(t, out, id)
}

func TestUpdateEditsGivenFieldsAndKeepsCompletion(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()

	out, err := run(t, deps, "add", "--title", "Draft", "--date", "2024-05-03", "--category", "Work", "--description", "first pass")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	_, err = run(t, deps, "complete", id)
	require.NoError(t, err)

	out, err = run(t, deps, "update", id, "--title", "Final", "--date", "2024-05-04")
	require.NoError(t, err)
	require.Equal(t, id, strings.TrimSpace(out))

	got, err := deps.Service.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Final", got.Title)
	require.Equal(t, domain.NewDate(2024, time.May, 4), got.Date)
	require.Equal(t, "Work", got.Category)
	require.Equal(t, "first pass", got.Description)
	require.True(t, got.Completed)

	all, err := deps.Service.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = run(t, deps, "update", id, "--date", "2024-04-01")
	require.ErrorIs(t, err, domain.ErrInvalidActivity)
	_, err = run(t, deps, "update", id, "--title", " ")
	require.ErrorIs(t, err, domain.ErrInvalidActivity)
	_, err = run(t, deps, "update", "missing", "--title", "x")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestUpdateKeepsPastDateWhenUnchanged(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()

	stored, err := deps.Service.SaveNew(ctx, domain.Activity{Title: "Old", Date: domain.NewDate(2024, time.April, 1)})
	require.NoError(t, err)

	_, err = run(t, deps, "update", stored.ID, "--category", "Archive")
	require.NoError(t, err)

	got, err := deps.Service.Get(ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, "Archive", got.Category)
	require.Equal(t, domain.NewDate(2024, time.April, 1), got.Date)
}

func TestCommandErrors(t *testing.T) {
	deps, _ := newDeps(t)

	_, err := run(t, deps, "add", "--title", "Late", "--date", "2024-04-01")
	require.ErrorIs(t, err, domain.ErrInvalidActivity)

	_, err = run(t, deps, "complete", "missing")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)

	_, err = run(t, deps, "delete", "missing")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)

	out, err := run(t, deps, "add", "--title", "Ok", "--date", "2024-05-02")
	require.NoError(t, err)
	_, err = run(t, deps, "export", strings.TrimSpace(out), "--format", "txt")
	require.ErrorIs(t, err, export.ErrUnsupportedFormat)

	_, err = run(t, deps, "list", "--pending", "--completed")
	require.Error(t, err)
}
