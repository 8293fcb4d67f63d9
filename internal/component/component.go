package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/th3jlux/toolsmith/internal/domain"
)

func layout(title string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
`, templ.EscapeString(title))

		if err != nil {
			return err
		}

		if err = body(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, "<script src=\"/static/app.js\"></script>\n</body>\n</html>\n")

		return err
	})
}

func Home(tools []domain.Tool, loadErrors []string) templ.Component {
	return layout("Toolsmith", func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main class="home">
<h1>Toolsmith</h1>
<p class="tagline">Describe a tool. Get a tool.</p>
<form id="tool-form">
<label for="title-field">Title</label>
<input id="title-field" name="title" type="text" autocomplete="off">
<label for="prompt-field">What should it do?</label>
<textarea id="prompt-field" name="prompt" rows="4"></textarea>
<button id="submit-btn" type="submit">Generate</button>
<button id="clear-selection-btn" type="button">Clear selection</button>
<span id="spinner" class="spinner" hidden></span>
</form>
<ul id="tool-list" class="tool-list">
`); err != nil {
			return err
		}

		for i, tool := range tools {
			_, err := fmt.Fprintf(w, `<li class="tool-item">
<input type="radio" name="selected-utility" value="%s" data-index="%d">
<a href="%s">%s</a>
<button type="button" class="open-code-btn" data-title="%s">Code</button>
<button type="button" class="delete-btn" data-title="%s">Delete</button>
</li>
`,
				templ.EscapeString(tool.Href), i,
				templ.EscapeString(tool.Href), templ.EscapeString(tool.Title),
				templ.EscapeString(tool.Href), templ.EscapeString(tool.Href))

			if err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</ul>\n"); err != nil {
			return err
		}

		if len(loadErrors) > 0 {
			if _, err := io.WriteString(w, `<ul class="load-errors">`+"\n"); err != nil {
				return err
			}

			for _, msg := range loadErrors {
				if _, err := fmt.Fprintf(w, "<li>%s</li>\n", templ.EscapeString(msg)); err != nil {
					return err
				}
			}

			if _, err := io.WriteString(w, "</ul>\n"); err != nil {
				return err
			}
		}

		return writeEditorPopup(w)
	})
}

func writeEditorPopup(w io.Writer) error {
	_, err := io.WriteString(w, `<div id="code-popup" class="code-popup" hidden>
<h2>Source</h2>
<label for="python-code">Python</label>
<textarea id="python-code" rows="14"></textarea>
<label for="html-code">HTML</label>
<textarea id="html-code" rows="14"></textarea>
<button id="save-code-btn" type="button">Save</button>
<button id="close-popup-btn" type="button">Close</button>
</div>
</main>
`)

	return err
}

// ToolPage renders a generated page inside the shared layout. The stored
// markup is emitted as-is; it is the tool itself, not untrusted input from
// a third party.
func ToolPage(tool domain.Tool, html string) templ.Component {
	return layout(tool.Title, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<main class=\"tool-page\">\n"); err != nil {
			return err
		}

		if err := templ.Raw(html).Render(ctx, w); err != nil {
			return err
		}

		return writeChatWidget(w)
	})
}

func writeChatWidget(w io.Writer) error {
	_, err := io.WriteString(w, `<div id="chat-widget" class="chat-widget">
<button id="chat-toggle-btn" type="button">&#128172;</button>
<div id="chat-panel" hidden>
<textarea id="chat-input" rows="3" placeholder="Refine this tool..."></textarea>
<button id="chat-send-btn" type="button">Send</button>
<span id="chat-spinner" class="spinner" hidden></span>
</div>
</div>
</main>
`)

	return err
}

func ErrorPage(code int, title string, msg string) templ.Component {
	return layout(title, func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<main class="error-page">
<h1>%d</h1>
<h2>%s</h2>
<p>%s</p>
<a href="/">Back home</a>
</main>
`, code, templ.EscapeString(title), templ.EscapeString(msg))

		return err
	})
}
