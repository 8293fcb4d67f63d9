package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/th3jlux/toolsmith/internal/domain"
	"github.com/th3jlux/toolsmith/internal/persistence"
)

type submitReq struct {
	Title                string `json:"title"`
	Prompt               string `json:"prompt"`
	SelectedUtilityValue string `json:"selectedUtilityValue"`
}

type deleteReq struct {
	Title string `json:"title"`
}

type chatReq struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

type installReq struct {
	Package string `json:"package"`
}

type updateCodeReq struct {
	RouteName  string `json:"route_name"`
	PythonCode string `json:"python_code"`
	HTMLCode   string `json:"html_code"`
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (a *App) index(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	tools, err := a.ToolRepo.ListTools()

	if err != nil {
		ctx := get500()
		return &ComponentResponse{Component: a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg), Code: 500, ContentType: "text/html", Error: err}
	}

	return &ComponentResponse{Component: a.ComponentBuilder.Home(tools, a.LoadErrors()), Code: 200, Message: "OK", ContentType: "text/html", Error: nil}
}

func (a *App) toolPage(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	name, err := domain.ParseTitle(r.URL.Path)

	if err != nil {
		ctx := get404()
		return &ComponentResponse{Component: a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg), Code: 404, ContentType: "text/html", Error: nil}
	}

	tool, err := a.ToolRepo.GetTool(r.URL.Path)

	if errors.Is(err, persistence.ErrToolNotFound) {
		ctx := get404()
		return &ComponentResponse{Component: a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg), Code: 404, ContentType: "text/html", Error: nil}
	} else if err != nil {
		ctx := get500()
		return &ComponentResponse{Component: a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg), Code: 500, ContentType: "text/html", Error: err}
	}

	pair, err := a.CodeStore.ReadPair(name)

	if err != nil || pair.HTMLCode == "" {
		ctx := get500()
		return &ComponentResponse{Component: a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg), Code: 500, ContentType: "text/html", Error: err}
	}

	return &ComponentResponse{Component: a.ComponentBuilder.Tool(*tool, pair.HTMLCode), Code: 200, Message: "OK", ContentType: "text/html", Error: nil}
}

func genCreatePrompt(name string, prompt string) string {
	return fmt.Sprintf("Create a utility with route_name: %s, prompt: %s", name, prompt)
}

func genUpdatePrompt(name string, pair domain.CodePair, prompt string) string {
	return fmt.Sprintf(`Update the utility with route_name: %s whose current code is

Python:

%s

HTML:

%s

based on this prompt: %s`, name, pair.PythonCode, pair.HTMLCode, prompt)
}

// generate runs the model and stores the result, recording the run so
// failed generations stay visible in the run log.
func (a *App) generate(r *http.Request, kind string, name string, userPrompt string) error {
	runId := uuid.New().String()
	run := domain.GenerationRun{
		Id:        runId,
		ToolName:  name,
		Kind:      kind,
		State:     domain.RunStateRunning,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := a.RunRepo.InsertRun(run); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}

	outcome := domain.RunStateFailed

	defer func() {
		if err := a.RunRepo.UpdateRunState(runId, outcome); err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}

		a.Metrics.GenerationRuns.WithLabelValues(kind, outcome).Inc()
	}()

	generated, err := a.Generator.Generate(r.Context(), userPrompt)

	if err != nil {
		return err
	}

	if err = a.CodeStore.WritePair(name, generated.Pair); err != nil {
		return err
	}

	if err = a.CodeStore.AppendRequirements(generated.PipInstalls); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}

	outcome = domain.RunStateCompleted

	return nil
}

func (a *App) submit(w http.ResponseWriter, r *http.Request) *APIResponse {
	body, err := Read(r.Body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Invalid request body"}, Error: err}
	}

	req, err := ReadJSON[submitReq](body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Invalid request body"}, Error: err}
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Prompt) == "" {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Title and prompt are required."}, Error: nil}
	}

	if req.SelectedUtilityValue != "" {
		return a.resubmit(w, r, req)
	}

	name, err := domain.Slug(req.Title)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: err.Error()}, Error: err}
	}

	href, err := domain.WrapTitle(name)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: err.Error()}, Error: err}
	}

	if _, err = a.ToolRepo.GetTool(href); err == nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Title already exists"}, Error: nil}
	} else if !errors.Is(err, persistence.ErrToolNotFound) {
		return &APIResponse{Code: 500, Body: errorBody{Error: "Internal server error"}, Error: err}
	}

	if err = a.generate(r, domain.RunKindCreate, name, genCreatePrompt(name, req.Prompt)); err != nil {
		return &APIResponse{Code: 500, Body: errorBody{Error: "Generation failed"}, Error: err}
	}

	tool := domain.Tool{
		Title:      href,
		Href:       href,
		Template:   name + "_html.html",
		SourceFile: name + "_python.py",
	}

	if err = a.ToolRepo.InsertTool(tool); err != nil {
		return &APIResponse{Code: 500, Body: errorBody{Error: "Internal server error"}, Error: err}
	}

	return &APIResponse{Code: 200, Body: messageBody{Message: "all good"}, Error: nil}
}

// resubmit regenerates an existing tool selected in the list, feeding its
// current code back into the prompt.
func (a *App) resubmit(w http.ResponseWriter, r *http.Request, req *submitReq) *APIResponse {
	name, err := domain.ParseTitle(req.SelectedUtilityValue)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: err.Error()}, Error: err}
	}

	pair, err := a.CodeStore.ReadPair(name)

	if err != nil {
		return &APIResponse{Code: 500, Body: errorBody{Error: "Internal server error"}, Error: err}
	}

	if err = a.generate(r, domain.RunKindUpdate, name, genUpdatePrompt(name, pair, req.Prompt)); err != nil {
		return &APIResponse{Code: 500, Body: errorBody{Error: "Generation failed"}, Error: err}
	}

	return &APIResponse{Code: 200, Body: messageBody{Message: "all good"}, Error: nil}
}

func (a *App) deleteTool(w http.ResponseWriter, r *http.Request) *APIResponse {
	body, err := Read(r.Body)

	if err != nil {
		return &APIResponse{Code: 400, Body: messageBody{Message: "Invalid request body"}, Error: err}
	}

	req, err := ReadJSON[deleteReq](body)

	if err != nil || strings.TrimSpace(req.Title) == "" {
		return &APIResponse{Code: 400, Body: messageBody{Message: "No title provided"}, Error: err}
	}

	name, err := domain.ParseTitle(req.Title)

	if err != nil {
		// Plain display titles are accepted too; reduce them to a route.
		if name, err = domain.Slug(req.Title); err != nil {
			return &APIResponse{Code: 400, Body: messageBody{Message: err.Error()}, Error: err}
		}
	}

	href, err := domain.WrapTitle(name)

	if err != nil {
		return &APIResponse{Code: 400, Body: messageBody{Message: err.Error()}, Error: err}
	}

	if err = a.ToolRepo.DeleteTool(href); errors.Is(err, persistence.ErrToolNotFound) {
		return &APIResponse{Code: 404, Body: messageBody{Message: "Entry not found"}, Error: nil}
	} else if err != nil {
		return &APIResponse{Code: 500, Body: messageBody{Message: fmt.Sprintf("An error occurred: %s", err.Error())}, Error: err}
	}

	if err = a.CodeStore.DeletePair(name); err != nil {
		return &APIResponse{Code: 500, Body: messageBody{Message: fmt.Sprintf("An error occurred: %s", err.Error())}, Error: err}
	}

	a.Metrics.ToolDeletes.Inc()

	return &APIResponse{Code: 200, Body: messageBody{Message: "Tool deleted successfully"}, Error: nil}
}

func (a *App) getCode(w http.ResponseWriter, r *http.Request) *APIResponse {
	name := r.URL.Query().Get("route_name")

	if name == "" {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Route name is required"}, Error: nil}
	}

	pair, err := a.CodeStore.ReadPair(name)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: err.Error()}, Error: err}
	}

	if pair.PythonCode == "" && pair.HTMLCode == "" {
		return &APIResponse{Code: 404, Body: errorBody{Error: "No code found for the specified route"}, Error: nil}
	}

	return &APIResponse{Code: 200, Body: pair, Error: nil}
}

func (a *App) updateCode(w http.ResponseWriter, r *http.Request) *APIResponse {
	body, err := Read(r.Body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Invalid request body"}, Error: err}
	}

	req, err := ReadJSON[updateCodeReq](body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Invalid request body"}, Error: err}
	}

	if req.RouteName == "" || (req.PythonCode == "" && req.HTMLCode == "") {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Route name and code are required."}, Error: nil}
	}

	pair := domain.CodePair{PythonCode: req.PythonCode, HTMLCode: req.HTMLCode}

	if err = a.CodeStore.WritePair(req.RouteName, pair); err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: err.Error()}, Error: err}
	}

	return &APIResponse{Code: 200, Body: messageBody{Message: "Code updated successfully"}, Error: nil}
}

func (a *App) chatbot(w http.ResponseWriter, r *http.Request) *APIResponse {
	body, err := Read(r.Body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Invalid request body"}, Error: err}
	}

	req, err := ReadJSON[chatReq](body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Invalid request body"}, Error: err}
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Prompt) == "" {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Title and prompt are required."}, Error: nil}
	}

	if !domain.ValidRouteName(req.Title) {
		return &APIResponse{Code: 400, Body: errorBody{Error: fmt.Sprintf("invalid route name %q", req.Title)}, Error: nil}
	}

	pair, err := a.CodeStore.ReadPair(req.Title)

	if err != nil {
		return &APIResponse{Code: 500, Body: errorBody{Error: err.Error()}, Error: err}
	}

	if err = a.generate(r, domain.RunKindChat, req.Title, genUpdatePrompt(req.Title, pair, req.Prompt)); err != nil {
		return &APIResponse{Code: 500, Body: errorBody{Error: "Generation failed"}, Error: err}
	}

	return &APIResponse{Code: 200, Body: messageBody{Message: "Chatbot successfully updated."}, Error: nil}
}

func (a *App) install(w http.ResponseWriter, r *http.Request) *APIResponse {
	if !a.Config.AllowInstall {
		return &APIResponse{Code: 403, Body: errorBody{Error: "Package install is disabled"}, Error: nil}
	}

	body, err := Read(r.Body)

	if err != nil {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Please provide a package name."}, Error: err}
	}

	req, err := ReadJSON[installReq](body)

	if err != nil || strings.TrimSpace(req.Package) == "" {
		return &APIResponse{Code: 400, Body: errorBody{Error: "Please provide a package name."}, Error: err}
	}

	cmd := exec.CommandContext(r.Context(), a.Config.PythonBin, "-m", "pip", "install", req.Package)
	out, err := cmd.CombinedOutput()

	if err != nil {
		return &APIResponse{
			Code:  500,
			Body:  errorBody{Error: fmt.Sprintf("Error installing package '%s': %s", req.Package, out)},
			Error: err,
		}
	}

	return &APIResponse{Code: 200, Body: messageBody{Message: fmt.Sprintf("Package '%s' installed successfully.", req.Package)}, Error: nil}
}
