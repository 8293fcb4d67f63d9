package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type component interface {
	Render(ctx context.Context, w io.Writer) error
}

type ComponentResponse struct {
	Error       error
	Message     string
	Code        int
	ContentType string
	Component   component
}

type ComponentHandler func(http.ResponseWriter, *http.Request) *ComponentResponse

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
	}

	w.Header().Add("Content-Type", resp.ContentType)

	if resp.Code != 0 {
		w.WriteHeader(resp.Code)
	}

	err := resp.Component.Render(r.Context(), w)

	if err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
		http.Error(w, "failed to render component", 500)
	}
}

type APIResponse struct {
	Error error
	Code  int
	Body  any
}

// APIHandler is the JSON twin of ComponentHandler: handlers return a
// response value, the handler type owns logging and encoding.
type APIHandler func(http.ResponseWriter, *http.Request) *APIResponse

func (ah APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ah(w, r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
	}

	w.Header().Add("Content-Type", "application/json")

	if resp.Code != 0 {
		w.WriteHeader(resp.Code)
	}

	if resp.Body == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
	}
}
