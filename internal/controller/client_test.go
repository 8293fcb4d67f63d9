package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/th3jlux/toolsmith/internal/domain"
)

func TestClientSubmitBody(t *testing.T) {
	var gotPath, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = strings.TrimSpace(string(body))
		w.Write([]byte(`{"message": "all good"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.Submit(context.Background(), Draft{Title: "Notes", Prompt: "a sticky notes app"})
	require.NoError(t, err)

	assert.Equal(t, "/submit", gotPath)
	// No utility selected, so the selection key is omitted entirely.
	assert.Equal(t, `{"title":"Notes","prompt":"a sticky notes app"}`, gotBody)
}

func TestClientGetCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get_code", r.URL.Path)
		require.Equal(t, "notes", r.URL.Query().Get("route_name"))
		w.Write([]byte(`{"python_code": "py", "html_code": "html"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	pair, err := client.GetCode(context.Background(), "notes")
	require.NoError(t, err)
	assert.Equal(t, domain.CodePair{PythonCode: "py", HTMLCode: "html"}, pair)
}

func TestClientBackendErrorMessageFields(t *testing.T) {
	bodies := []string{
		`{"message": "Entry not found"}`,
		`{"error": "Entry not found"}`,
	}

	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(404)
			w.Write([]byte(body))
		}))

		err := NewClient(server.URL).Delete(context.Background(), "/ghost_html")
		server.Close()

		var backendErr BackendError
		require.ErrorAs(t, err, &backendErr)
		assert.Equal(t, 404, backendErr.StatusCode)
		assert.Equal(t, "Entry not found", backendErr.Message)
	}
}

func TestClientBackendErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	err := NewClient(server.URL).Chat(context.Background(), "notes", "x")

	var backendErr BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Empty(t, backendErr.Message)
	assert.Contains(t, backendErr.Error(), "500")
}

func TestClientTransportError(t *testing.T) {
	// Point at a closed server.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewClient(url).Delete(context.Background(), "/notes_html")

	var transportErr TransportError
	require.ErrorAs(t, err, &transportErr)
}
