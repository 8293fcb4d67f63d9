package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/th3jlux/toolsmith/internal/domain"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()

	registry, err := OpenRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = registry.Close() })

	return registry
}

func TestRegistryToolLifecycle(t *testing.T) {
	registry := openTestRegistry(t)

	tool := domain.Tool{
		Title:      "/notes_html",
		Href:       "/notes_html",
		Template:   "notes_html.html",
		SourceFile: "notes_python.py",
	}

	require.NoError(t, registry.InsertTool(tool))

	got, err := registry.GetTool("/notes_html")
	require.NoError(t, err)
	assert.Equal(t, tool, *got)

	err = registry.InsertTool(tool)
	assert.ErrorIs(t, err, ErrToolExists)

	require.NoError(t, registry.DeleteTool("/notes_html"))

	_, err = registry.GetTool("/notes_html")
	assert.ErrorIs(t, err, ErrToolNotFound)

	err = registry.DeleteTool("/notes_html")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestRegistryListSorted(t *testing.T) {
	registry := openTestRegistry(t)

	for _, href := range []string{"/zebra_html", "/alpha_html", "/mid_html"} {
		require.NoError(t, registry.InsertTool(domain.Tool{Title: href, Href: href}))
	}

	tools, err := registry.ListTools()
	require.NoError(t, err)

	hrefs := make([]string, len(tools))
	for i, tool := range tools {
		hrefs[i] = tool.Href
	}

	assert.Equal(t, []string{"/alpha_html", "/mid_html", "/zebra_html"}, hrefs)
}

func TestRegistryUpsertOverwrites(t *testing.T) {
	registry := openTestRegistry(t)

	require.NoError(t, registry.UpsertTool(domain.Tool{Href: "/notes_html", Title: "old"}))
	require.NoError(t, registry.UpsertTool(domain.Tool{Href: "/notes_html", Title: "new"}))

	got, err := registry.GetTool("/notes_html")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
}

func TestRegistryRunStates(t *testing.T) {
	registry := openTestRegistry(t)

	run := domain.GenerationRun{
		Id:       "run-1",
		ToolName: "notes",
		Kind:     domain.RunKindCreate,
		State:    domain.RunStateRunning,
	}

	require.NoError(t, registry.InsertRun(run))
	require.NoError(t, registry.UpdateRunState("run-1", domain.RunStateCompleted))

	got, err := registry.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateCompleted, got.State)
	assert.Equal(t, "notes", got.ToolName)

	err = registry.UpdateRunState("missing", domain.RunStateFailed)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
