package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/th3jlux/toolsmith/internal/domain"
)

// Workspace holds the generated sources on disk, one pair per tool:
// routes/<name>_python.py and templates/<name>_html.html, plus an
// accumulated requirements.txt.
type Workspace struct {
	Dir string
}

// Jinja scaffolding left behind by earlier generations of the workspace.
// Stripped on read so editors see only the page markup.
var legacyTemplateMarkers = []string{
	`{% endblock %}`,
	`{% extends "base.html" %}`,
	`{% block content %}`,
}

func (w Workspace) RoutesDir() string    { return filepath.Join(w.Dir, "routes") }
func (w Workspace) TemplatesDir() string { return filepath.Join(w.Dir, "templates") }

func (w Workspace) PythonPath(name string) string {
	return filepath.Join(w.RoutesDir(), name+"_python.py")
}

func (w Workspace) TemplatePath(name string) string {
	return filepath.Join(w.TemplatesDir(), name+"_html.html")
}

func (w Workspace) EnsureDirs() error {
	for _, dir := range []string{w.RoutesDir(), w.TemplatesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure workspace dir: %w", err)
		}
	}

	return nil
}

func (w Workspace) WritePair(name string, pair domain.CodePair) error {
	if !domain.ValidRouteName(name) {
		return fmt.Errorf("invalid route name %q", name)
	}

	if err := w.EnsureDirs(); err != nil {
		return err
	}

	if err := os.WriteFile(w.PythonPath(name), []byte(pair.PythonCode), 0o644); err != nil {
		return fmt.Errorf("write python source: %w", err)
	}

	if err := os.WriteFile(w.TemplatePath(name), []byte(pair.HTMLCode), 0o644); err != nil {
		return fmt.Errorf("write html template: %w", err)
	}

	return nil
}

// ReadPair returns the stored sources for a tool. A missing file yields an
// empty string for that half of the pair rather than an error; callers
// treat a fully empty pair as "not found".
func (w Workspace) ReadPair(name string) (domain.CodePair, error) {
	if !domain.ValidRouteName(name) {
		return domain.CodePair{}, fmt.Errorf("invalid route name %q", name)
	}

	pythonCode, err := readOptional(w.PythonPath(name))

	if err != nil {
		return domain.CodePair{}, err
	}

	htmlCode, err := readOptional(w.TemplatePath(name))

	if err != nil {
		return domain.CodePair{}, err
	}

	for _, marker := range legacyTemplateMarkers {
		htmlCode = strings.ReplaceAll(htmlCode, marker, "")
	}

	return domain.CodePair{
		PythonCode: strings.TrimSpace(pythonCode),
		HTMLCode:   strings.TrimSpace(htmlCode),
	}, nil
}

func (w Workspace) DeletePair(name string) error {
	if !domain.ValidRouteName(name) {
		return fmt.Errorf("invalid route name %q", name)
	}

	for _, path := range []string{w.PythonPath(name), w.TemplatePath(name)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}

	return nil
}

// ListNames scans the templates dir and reports the route names that have a
// stored page, in no particular order. Used to reconcile the registry with
// what is actually on disk.
func (w Workspace) ListNames() ([]string, error) {
	entries, err := os.ReadDir(w.TemplatesDir())

	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name, ok := strings.CutSuffix(entry.Name(), "_html.html")

		if !ok || !domain.ValidRouteName(name) {
			continue
		}

		names = append(names, name)
	}

	return names, nil
}

func (w Workspace) AppendRequirements(packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(w.Dir, "requirements.txt")
	existing, err := readOptional(path)

	if err != nil {
		return err
	}

	seen := map[string]bool{}

	for _, line := range strings.Split(existing, "\n") {
		seen[strings.TrimSpace(line)] = true
	}

	var appended []string

	for _, pkg := range packages {
		if pkg = strings.TrimSpace(pkg); pkg != "" && !seen[pkg] {
			appended = append(appended, pkg)
			seen[pkg] = true
		}
	}

	if len(appended) == 0 {
		return nil
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)

	if err != nil {
		return err
	}

	defer file.Close()

	_, err = file.WriteString(strings.Join(appended, "\n") + "\n")

	return err
}

func readOptional(path string) (string, error) {
	content, err := os.ReadFile(path)

	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return string(content), nil
}
