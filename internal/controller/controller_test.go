package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/th3jlux/toolsmith/internal/domain"
)

type fakeBackend struct {
	submits  []Draft
	deletes  []string
	codeReqs []string
	updates  []string
	chats    [][2]string

	err           error
	code          domain.CodePair
	submitStarted chan struct{}
	submitGate    chan struct{}
}

func (b *fakeBackend) Submit(_ context.Context, draft Draft) error {
	b.submits = append(b.submits, draft)

	if b.submitStarted != nil {
		b.submitStarted <- struct{}{}
	}

	if b.submitGate != nil {
		<-b.submitGate
	}

	return b.err
}

func (b *fakeBackend) Delete(_ context.Context, title string) error {
	b.deletes = append(b.deletes, title)
	return b.err
}

func (b *fakeBackend) GetCode(_ context.Context, routeName string) (domain.CodePair, error) {
	b.codeReqs = append(b.codeReqs, routeName)
	return b.code, b.err
}

func (b *fakeBackend) UpdateCode(_ context.Context, routeName string, _ domain.CodePair) error {
	b.updates = append(b.updates, routeName)
	return b.err
}

func (b *fakeBackend) Chat(_ context.Context, routeName string, prompt string) error {
	b.chats = append(b.chats, [2]string{routeName, prompt})
	return b.err
}

type fakeNotifier struct {
	notices []string
	confirm bool
}

func (n *fakeNotifier) Notify(msg string) { n.notices = append(n.notices, msg) }

func (n *fakeNotifier) Confirm(string) bool { return n.confirm }

type fakeBinding struct {
	busyLog       []bool
	title         string
	titleLocked   bool
	selectedIndex int
	selectCleared bool
	code          domain.CodePair
	editorOpens   int
	chatClears    int
	refreshes     int
	path          string
}

func (b *fakeBinding) SetBusy(busy bool)                { b.busyLog = append(b.busyLog, busy) }
func (b *fakeBinding) SetTitle(title string, lock bool) { b.title, b.titleLocked = title, lock }
func (b *fakeBinding) SelectUtility(index int)          { b.selectedIndex = index }
func (b *fakeBinding) ClearSelection()                  { b.selectCleared = true }
func (b *fakeBinding) SetCode(pair domain.CodePair)     { b.code = pair }
func (b *fakeBinding) OpenEditor()                      { b.editorOpens++ }
func (b *fakeBinding) ClearChatInput()                  { b.chatClears++ }
func (b *fakeBinding) CurrentPath() string              { return b.path }
func (b *fakeBinding) Refresh()                         { b.refreshes++ }

func newTestController(t *testing.T) (*Controller, *fakeBackend, *fakeNotifier, *fakeBinding) {
	t.Helper()

	backend := &fakeBackend{}
	notifier := &fakeNotifier{confirm: true}
	binding := &fakeBinding{path: "/notes_html"}

	return New(backend, notifier, binding), backend, notifier, binding
}

func endsIdle(log []bool) bool {
	return len(log) > 0 && !log[len(log)-1]
}

func TestSubmitCreationSendsDraft(t *testing.T) {
	c, backend, _, binding := newTestController(t)

	err := c.SubmitCreation(context.Background(), "Notes", "a sticky notes app")
	require.NoError(t, err)

	require.Len(t, backend.submits, 1)
	assert.Equal(t, Draft{Title: "Notes", Prompt: "a sticky notes app"}, backend.submits[0])

	assert.Equal(t, []bool{true, false}, binding.busyLog)
	assert.Equal(t, 1, binding.refreshes)
}

func TestSubmitCreationValidation(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)

	for _, tc := range []struct{ title, prompt string }{
		{"", "a prompt"},
		{"   ", "a prompt"},
		{"Notes", ""},
		{"Notes", " \t\n"},
	} {
		err := c.SubmitCreation(context.Background(), tc.title, tc.prompt)

		var vErr ValidationError
		require.ErrorAs(t, err, &vErr, "title %q prompt %q", tc.title, tc.prompt)
	}

	assert.Empty(t, backend.submits)
	assert.Empty(t, binding.busyLog)
	assert.Len(t, notifier.notices, 4)
}

func TestSubmitCreationBackendFailure(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)
	backend.err = BackendError{StatusCode: 400, Message: "Title already exists"}

	err := c.SubmitCreation(context.Background(), "Notes", "a prompt")
	require.Error(t, err)

	assert.Contains(t, notifier.notices, "Title already exists")
	assert.True(t, endsIdle(binding.busyLog))
	assert.Zero(t, binding.refreshes)
}

func TestSubmitCreationTransportFailure(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)
	backend.err = TransportError{Err: errors.New("connection refused")}

	err := c.SubmitCreation(context.Background(), "Notes", "a prompt")
	require.Error(t, err)

	assert.Contains(t, notifier.notices, "Failed to generate the tool. Please try again.")
	assert.True(t, endsIdle(binding.busyLog))
}

func TestSubmitCreationRejectsDuplicateInFlight(t *testing.T) {
	c, backend, _, _ := newTestController(t)
	backend.submitStarted = make(chan struct{}, 1)
	backend.submitGate = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- c.SubmitCreation(context.Background(), "Notes", "a prompt") }()

	// Wait for the first request to be in flight.
	<-backend.submitStarted

	err := c.SubmitCreation(context.Background(), "Other", "another prompt")
	assert.ErrorIs(t, err, ErrRequestPending)
	assert.Len(t, backend.submits, 1)

	close(backend.submitGate)
	require.NoError(t, <-done)
}

func TestSubmitCreationIncludesSelection(t *testing.T) {
	c, backend, _, _ := newTestController(t)

	require.NoError(t, c.Select(0, "/notes_html"))
	require.NoError(t, c.SubmitCreation(context.Background(), "notes", "make it dark"))

	require.Len(t, backend.submits, 1)
	assert.Equal(t, "/notes_html", backend.submits[0].SelectedUtilityValue)
}

func TestDeleteDeclinedMakesNoCall(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)
	notifier.confirm = false

	require.NoError(t, c.DeleteTool(context.Background(), "Notes"))

	assert.Empty(t, backend.deletes)
	assert.Zero(t, binding.refreshes)
}

func TestDeleteConfirmed(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)

	require.NoError(t, c.DeleteTool(context.Background(), "Notes"))

	assert.Equal(t, []string{"Notes"}, backend.deletes)
	assert.Contains(t, notifier.notices, "Notes deleted successfully!")
	assert.Equal(t, 1, binding.refreshes)
}

func TestDeleteBackendFailure(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)
	backend.err = BackendError{StatusCode: 404, Message: "Entry not found"}

	err := c.DeleteTool(context.Background(), "Notes")
	require.Error(t, err)

	assert.Contains(t, notifier.notices, "Entry not found")
	assert.Zero(t, binding.refreshes)
}

func TestOpenCodeEditor(t *testing.T) {
	c, backend, _, binding := newTestController(t)
	backend.code = domain.CodePair{PythonCode: "py", HTMLCode: "html"}

	require.NoError(t, c.OpenCodeEditor(context.Background(), "/notes_html"))

	assert.Equal(t, []string{"notes"}, backend.codeReqs)
	assert.Equal(t, backend.code, binding.code)
	assert.Equal(t, 1, binding.editorOpens)
}

func TestOpenCodeEditorPlaceholders(t *testing.T) {
	c, backend, _, binding := newTestController(t)
	backend.code = domain.CodePair{PythonCode: "py"}

	require.NoError(t, c.OpenCodeEditor(context.Background(), "/notes_html"))

	assert.Equal(t, "py", binding.code.PythonCode)
	assert.Equal(t, codeUnavailable, binding.code.HTMLCode)
}

func TestOpenCodeEditorMalformedTitle(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)

	for _, title := range []string{"notes", "/notes", "notes_html", ""} {
		err := c.OpenCodeEditor(context.Background(), title)

		var vErr ValidationError
		require.ErrorAs(t, err, &vErr, "title %q", title)
	}

	assert.Empty(t, backend.codeReqs)
	assert.Zero(t, binding.editorOpens)
	assert.Len(t, notifier.notices, 4)
}

func TestOpenCodeEditorFailureOpensNothing(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)
	backend.err = BackendError{StatusCode: 404, Message: "No code found for the specified route"}

	err := c.OpenCodeEditor(context.Background(), "/notes_html")
	require.Error(t, err)

	assert.Contains(t, notifier.notices, "No code found for the specified route")
	assert.Zero(t, binding.editorOpens)
}

func TestSelectAndOpen(t *testing.T) {
	c, backend, _, binding := newTestController(t)

	require.NoError(t, c.SelectAndOpen(context.Background(), 2, "/notes_html"))

	assert.Equal(t, 2, binding.selectedIndex)
	assert.Equal(t, "notes", binding.title)
	assert.True(t, binding.titleLocked)
	assert.Equal(t, []string{"notes"}, backend.codeReqs)
	assert.Equal(t, "/notes_html", c.Selected())
}

func TestSelectLocksTitle(t *testing.T) {
	c, _, _, binding := newTestController(t)

	require.NoError(t, c.Select(0, "/notes_html"))

	assert.Equal(t, "notes", binding.title)
	assert.True(t, binding.titleLocked)
	assert.Equal(t, "/notes_html", c.Selected())
}

func TestClearSelection(t *testing.T) {
	c, _, _, binding := newTestController(t)

	require.NoError(t, c.Select(1, "/notes_html"))
	c.ClearSelection()

	assert.True(t, binding.selectCleared)
	assert.Empty(t, binding.title)
	assert.False(t, binding.titleLocked)
	assert.Empty(t, c.Selected())
}

func TestSubmitChat(t *testing.T) {
	c, backend, _, binding := newTestController(t)

	require.NoError(t, c.SubmitChat(context.Background(), "add search"))

	require.Len(t, backend.chats, 1)
	assert.Equal(t, [2]string{"notes", "add search"}, backend.chats[0])
	assert.Equal(t, 1, binding.chatClears)
	assert.Equal(t, 1, binding.refreshes)
}

func TestSubmitChatValidation(t *testing.T) {
	c, backend, notifier, binding := newTestController(t)

	err := c.SubmitChat(context.Background(), "   ")

	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)

	assert.Empty(t, backend.chats)
	assert.Empty(t, binding.busyLog)
	assert.Len(t, notifier.notices, 1)
}

func TestSubmitChatBusyAlwaysEndsIdle(t *testing.T) {
	scenarios := map[string]error{
		"success":         nil,
		"backend failure": BackendError{StatusCode: 500, Message: "Generation failed"},
		"transport error": TransportError{Err: errors.New("timeout")},
	}

	for name, backendErr := range scenarios {
		t.Run(name, func(t *testing.T) {
			c, backend, _, binding := newTestController(t)
			backend.err = backendErr

			_ = c.SubmitChat(context.Background(), "tweak colors")

			assert.True(t, endsIdle(binding.busyLog))
			assert.Equal(t, 1, binding.chatClears)
			assert.Equal(t, 1, binding.refreshes)
		})
	}
}

func TestSubmitChatOffToolPage(t *testing.T) {
	c, backend, _, binding := newTestController(t)
	binding.path = "/"

	err := c.SubmitChat(context.Background(), "add search")

	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, backend.chats)
}

func TestSaveCode(t *testing.T) {
	c, backend, notifier, _ := newTestController(t)

	err := c.SaveCode(context.Background(), "/notes_html", domain.CodePair{PythonCode: "p", HTMLCode: "h"})
	require.NoError(t, err)

	assert.Equal(t, []string{"notes"}, backend.updates)
	assert.Contains(t, notifier.notices, "Code updated successfully")
}
