package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"example.com/agenda/internal/config"
	"example.com/agenda/internal/domain"
	"example.com/agenda/internal/persistence/jsonfile"
)

func TestNewFileBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{DataDir: dir, ExportDir: filepath.Join(dir, "exports"), Store: config.StoreFile, Locale: "es"}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	stored, err := a.Service.SaveNew(context.Background(), domain.Activity{Title: "Tarea", Date: domain.NewDate(2024, time.May, 1)})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, jsonfile.FileName))

	path, err := a.Exporter.Export(context.Background(), *stored, "pdf")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "exports", "Tarea-20240501.pdf"), path)
}

func TestNewLenientFileBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonfile.FileName), []byte("garbage"), 0o644))

	a, err := New(context.Background(), config.Config{DataDir: dir, ExportDir: dir, Store: config.StoreFile, LenientLoad: true}, zap.NewNop())
	require.NoError(t, err)

	all, err := a.Service.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.Config{DataDir: t.TempDir(), ExportDir: t.TempDir(), Store: "sqlite"}, zap.NewNop())
	require.Error(t, err)
}
