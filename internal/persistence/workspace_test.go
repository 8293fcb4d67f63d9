package persistence

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/th3jlux/toolsmith/internal/domain"
)

func TestWorkspacePairRoundTrip(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}

	pair := domain.CodePair{
		PythonCode: "def notes():\n    return []",
		HTMLCode:   "<h1>Notes</h1>",
	}

	require.NoError(t, workspace.WritePair("notes", pair))

	got, err := workspace.ReadPair("notes")
	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

func TestWorkspaceReadMissingHalves(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}
	require.NoError(t, workspace.EnsureDirs())

	// Nothing stored at all: both halves empty, no error.
	got, err := workspace.ReadPair("ghost")
	require.NoError(t, err)
	assert.Empty(t, got.PythonCode)
	assert.Empty(t, got.HTMLCode)

	// Only the template present.
	require.NoError(t, os.WriteFile(workspace.TemplatePath("solo"), []byte("<p>hi</p>"), 0o644))

	got, err = workspace.ReadPair("solo")
	require.NoError(t, err)
	assert.Empty(t, got.PythonCode)
	assert.Equal(t, "<p>hi</p>", got.HTMLCode)
}

func TestWorkspaceStripsLegacyMarkers(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}
	require.NoError(t, workspace.EnsureDirs())

	legacy := "{% extends \"base.html\" %}\n{% block content %}\n<h1>Old</h1>\n{% endblock %}"
	require.NoError(t, os.WriteFile(workspace.TemplatePath("old"), []byte(legacy), 0o644))

	got, err := workspace.ReadPair("old")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Old</h1>", got.HTMLCode)
}

func TestWorkspaceDeleteIdempotent(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}

	require.NoError(t, workspace.WritePair("notes", domain.CodePair{PythonCode: "x", HTMLCode: "y"}))
	require.NoError(t, workspace.DeletePair("notes"))

	_, err := os.Stat(workspace.PythonPath("notes"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	require.NoError(t, workspace.DeletePair("notes"))
}

func TestWorkspaceRejectsBadNames(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}

	for _, name := range []string{"", "../escape", "has space", "notes_html"} {
		assert.Error(t, workspace.WritePair(name, domain.CodePair{}), "name %q", name)

		_, err := workspace.ReadPair(name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestWorkspaceListNames(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}
	require.NoError(t, workspace.EnsureDirs())

	require.NoError(t, workspace.WritePair("notes", domain.CodePair{HTMLCode: "<p>a</p>"}))
	require.NoError(t, workspace.WritePair("budget", domain.CodePair{HTMLCode: "<p>b</p>"}))
	require.NoError(t, os.WriteFile(workspace.TemplatePath("stray")+".bak", []byte("x"), 0o644))

	names, err := workspace.ListNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"notes", "budget"}, names)
}

func TestWorkspaceAppendRequirementsDedupes(t *testing.T) {
	workspace := Workspace{Dir: t.TempDir()}

	require.NoError(t, workspace.AppendRequirements([]string{"flask", "requests"}))
	require.NoError(t, workspace.AppendRequirements([]string{"requests", "pandas", ""}))

	content, err := os.ReadFile(workspace.Dir + "/requirements.txt")
	require.NoError(t, err)
	assert.Equal(t, "flask\nrequests\npandas\n", string(content))
}
