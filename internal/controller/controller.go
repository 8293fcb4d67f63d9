// Package controller drives the tool list, editor popup and chat widget
// against the backend. All capabilities are injected, so the exact same
// choreography runs under the CLI, a future UI shell, or a test harness.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/th3jlux/toolsmith/internal/domain"
)

const codeUnavailable = "Code unavailable"

// Backend is the app's HTTP surface as seen from a client.
type Backend interface {
	Submit(ctx context.Context, draft Draft) error
	Delete(ctx context.Context, title string) error
	GetCode(ctx context.Context, routeName string) (domain.CodePair, error)
	UpdateCode(ctx context.Context, routeName string, pair domain.CodePair) error
	Chat(ctx context.Context, routeName string, prompt string) error
}

// Notifier surfaces outcomes to the user and asks for confirmation.
type Notifier interface {
	Notify(msg string)
	Confirm(question string) bool
}

// Binding is the view surface the controller drives: the busy indicator,
// the title field, the editor popup, and the chat input.
type Binding interface {
	SetBusy(busy bool)
	SetTitle(title string, locked bool)
	SelectUtility(index int)
	ClearSelection()
	SetCode(pair domain.CodePair)
	OpenEditor()
	ClearChatInput()
	CurrentPath() string
	Refresh()
}

// Draft is the one-shot creation payload.
type Draft struct {
	Title                string `json:"title"`
	Prompt               string `json:"prompt"`
	SelectedUtilityValue string `json:"selectedUtilityValue,omitempty"`
}

type action string

const (
	actionSubmit action = "submit"
	actionDelete action = "delete"
	actionCode   action = "code"
	actionChat   action = "chat"
)

type Controller struct {
	backend  Backend
	notifier Notifier
	binding  Binding

	mu       sync.Mutex
	inFlight map[action]bool
	selected string
}

func New(backend Backend, notifier Notifier, binding Binding) *Controller {
	return &Controller{
		backend:  backend,
		notifier: notifier,
		binding:  binding,
		inFlight: map[action]bool{},
	}
}

// begin claims the in-flight slot for an action. A second invocation
// while the first is pending is rejected locally, no network call.
func (c *Controller) begin(a action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[a] {
		return false
	}

	c.inFlight[a] = true
	return true
}

func (c *Controller) end(a action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, a)
}

func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selected
}

func (c *Controller) validate(field string, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}

	err := ValidationError{Field: field, Reason: "must not be empty"}
	c.notifier.Notify(err.Error())

	return err
}

// failure reports an operation failure to the user. Backend messages are
// shown verbatim when the server provided one; everything else falls back
// to a generic notice.
func (c *Controller) failure(fallback string, err error) {
	var backendErr BackendError

	if errors.As(err, &backendErr) && backendErr.Message != "" {
		c.notifier.Notify(backendErr.Message)
		return
	}

	c.notifier.Notify(fallback)
}

// SubmitCreation sends a new tool request. The busy indicator is cleared
// on every path, and success refreshes the tool list.
func (c *Controller) SubmitCreation(ctx context.Context, title string, prompt string) error {
	if err := c.validate("title", title); err != nil {
		return err
	}

	if err := c.validate("prompt", prompt); err != nil {
		return err
	}

	if !c.begin(actionSubmit) {
		return ErrRequestPending
	}
	defer c.end(actionSubmit)

	c.binding.SetBusy(true)
	defer c.binding.SetBusy(false)

	draft := Draft{Title: title, Prompt: prompt, SelectedUtilityValue: c.Selected()}

	if err := c.backend.Submit(ctx, draft); err != nil {
		c.failure("Failed to generate the tool. Please try again.", err)
		return err
	}

	c.binding.Refresh()

	return nil
}

// DeleteTool asks for confirmation, then deletes. Declining aborts with
// no network call.
func (c *Controller) DeleteTool(ctx context.Context, title string) error {
	if err := c.validate("title", title); err != nil {
		return err
	}

	if !c.notifier.Confirm(fmt.Sprintf("Delete %s?", title)) {
		return nil
	}

	if !c.begin(actionDelete) {
		return ErrRequestPending
	}
	defer c.end(actionDelete)

	if err := c.backend.Delete(ctx, title); err != nil {
		c.failure("Failed to delete the tool. Please try again.", err)
		return err
	}

	c.notifier.Notify(fmt.Sprintf("%s deleted successfully!", title))
	c.binding.Refresh()

	return nil
}

// OpenCodeEditor loads a tool's sources into the editor popup. The route
// is derived through the title codec, so a malformed title fails loudly
// instead of being silently truncated.
func (c *Controller) OpenCodeEditor(ctx context.Context, title string) error {
	name, err := domain.ParseTitle(title)

	if err != nil {
		vErr := ValidationError{Field: "title", Reason: err.Error()}
		c.notifier.Notify(vErr.Error())
		return vErr
	}

	if !c.begin(actionCode) {
		return ErrRequestPending
	}
	defer c.end(actionCode)

	pair, err := c.backend.GetCode(ctx, name)

	if err != nil {
		c.failure("Failed to load the tool's code. Please try again.", err)
		return err
	}

	if pair.PythonCode == "" {
		pair.PythonCode = codeUnavailable
	}

	if pair.HTMLCode == "" {
		pair.HTMLCode = codeUnavailable
	}

	c.binding.SetCode(pair)
	c.binding.OpenEditor()

	return nil
}

// SaveCode pushes edited sources back for a tool shown in the editor.
func (c *Controller) SaveCode(ctx context.Context, title string, pair domain.CodePair) error {
	name, err := domain.ParseTitle(title)

	if err != nil {
		vErr := ValidationError{Field: "title", Reason: err.Error()}
		c.notifier.Notify(vErr.Error())
		return vErr
	}

	if !c.begin(actionCode) {
		return ErrRequestPending
	}
	defer c.end(actionCode)

	if err := c.backend.UpdateCode(ctx, name, pair); err != nil {
		c.failure("Failed to save the tool's code. Please try again.", err)
		return err
	}

	c.notifier.Notify("Code updated successfully")

	return nil
}

// Select marks a utility as selected and locks the title field to its
// derived display name.
func (c *Controller) Select(index int, title string) error {
	name, err := domain.ParseTitle(title)

	if err != nil {
		vErr := ValidationError{Field: "title", Reason: err.Error()}
		c.notifier.Notify(vErr.Error())
		return vErr
	}

	c.mu.Lock()
	c.selected = title
	c.mu.Unlock()

	c.binding.SelectUtility(index)
	c.binding.SetTitle(name, true)

	return nil
}

// SelectAndOpen selects a utility, lets the selection settle in the view,
// then opens its code editor.
func (c *Controller) SelectAndOpen(ctx context.Context, index int, title string) error {
	if err := c.Select(index, title); err != nil {
		return err
	}

	return c.OpenCodeEditor(ctx, title)
}

// ClearSelection drops any selection and unlocks the title field. No
// network call.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()

	c.binding.ClearSelection()
	c.binding.SetTitle("", false)
}

// SubmitChat refines the tool behind the current page. The busy indicator
// always ends Idle, and the chat input is cleared and the view refreshed
// regardless of outcome.
func (c *Controller) SubmitChat(ctx context.Context, prompt string) error {
	route, err := domain.ParseTitle(c.binding.CurrentPath())

	if err != nil {
		vErr := ValidationError{Field: "page", Reason: err.Error()}
		c.notifier.Notify(vErr.Error())
		return vErr
	}

	if err := c.validate("prompt", prompt); err != nil {
		return err
	}

	if !c.begin(actionChat) {
		return ErrRequestPending
	}
	defer c.end(actionChat)

	c.binding.SetBusy(true)
	defer c.binding.SetBusy(false)

	defer func() {
		c.binding.ClearChatInput()
		c.binding.Refresh()
	}()

	if err := c.backend.Chat(ctx, route, prompt); err != nil {
		c.failure("Failed to update the tool. Please try again.", err)
		return err
	}

	c.notifier.Notify("Tool updated. Reloading...")

	return nil
}
