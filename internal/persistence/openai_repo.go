package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/th3jlux/toolsmith/internal/domain"
)

const generatorSystemPrompt = `You are an assistant that generates small web utilities.

- The "python_code" field should include the Python code for the utility routes and logic (excluding any __main__ block).
  The code should be complete and executable without placeholders. Add extensive error handling and display the errors to users.
  The user has the latest versions of python and python packages.
  This file will be saved locally as <route_name>_python.py
  You should also return the packages used by the code you generated separated by newline in the pip_installs field.
- The "html_code" field should include the full code for the HTML template for the corresponding utility page.
  The html_code should include CSS to make sure the page looks gorgeous and modern.
  This file will be saved locally as <route_name>_html.html`

const generatorResponseSchema = `{
	"type": "json_schema",
	"json_schema": {
		"name": "utility_builder",
		"schema": {
			"type": "object",
			"properties": {
				"python_code": {"type": "string"},
				"html_code": {"type": "string"},
				"pip_installs": {"type": "string"}
			}
		}
	}
}`

type OpenAIRepo struct {
	BaseHeaders []string
	BaseUrl     string
	Model       string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format"`
}

func (r OpenAIRepo) Generate(ctx context.Context, userPrompt string) (*domain.GeneratedCode, error) {
	body, err := json.Marshal(chatRequest{
		Model: r.Model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: json.RawMessage(generatorResponseSchema),
	})

	if err != nil {
		return nil, err
	}

	respBody, err := request(ctx, reqConfig{Method: "POST", Url: r.BaseUrl + "/chat/completions", Headers: r.BaseHeaders, Body: body}, 200)

	if err != nil {
		return nil, err
	}

	content := gjson.GetBytes(respBody, "choices.0.message.content").String()

	if content == "" {
		return nil, errors.New("empty completion content")
	}

	return parseGenerated(content)
}

// Models occasionally wrap the structured output in a markdown fence even
// when a JSON response format was requested.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		return strings.TrimSpace(content[7 : len(content)-3])
	}

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		return strings.TrimSpace(content[3 : len(content)-3])
	}

	return content
}

func parseGenerated(content string) (*domain.GeneratedCode, error) {
	content = stripCodeFence(content)

	if !gjson.Valid(content) {
		return nil, errors.New("completion content is not valid JSON")
	}

	pythonCode := gjson.Get(content, "python_code")
	htmlCode := gjson.Get(content, "html_code")

	if !pythonCode.Exists() || !htmlCode.Exists() {
		return nil, errors.New("completion content missing python_code or html_code")
	}

	generated := domain.GeneratedCode{
		Pair: domain.CodePair{
			PythonCode: strings.TrimSpace(pythonCode.String()),
			HTMLCode:   strings.TrimSpace(htmlCode.String()),
		},
	}

	for _, line := range strings.Split(gjson.Get(content, "pip_installs").String(), "\n") {
		if pkg := strings.TrimSpace(line); pkg != "" {
			generated.PipInstalls = append(generated.PipInstalls, pkg)
		}
	}

	return &generated, nil
}
