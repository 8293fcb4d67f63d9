package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/th3jlux/toolsmith/internal/domain"
)

// Client implements Backend over HTTP.
type Client struct {
	BaseUrl    string
	HTTPClient *http.Client
}

func NewClient(baseUrl string) Client {
	return Client{BaseUrl: strings.TrimRight(baseUrl, "/"), HTTPClient: http.DefaultClient}
}

// serverMessage pulls the human-readable message out of an error body,
// which uses either a "message" or an "error" field.
func serverMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}

	return gjson.GetBytes(body, "error").String()
}

func (c Client) do(ctx context.Context, method string, path string, reqBody any) ([]byte, error) {
	var buf io.Reader

	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)

		if err != nil {
			return nil, TransportError{Err: err}
		}

		buf = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseUrl+path, buf)

	if err != nil {
		return nil, TransportError{Err: err}
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)

	if err != nil {
		return nil, TransportError{Err: err}
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, BackendError{StatusCode: resp.StatusCode, Message: serverMessage(body)}
	}

	return body, nil
}

func (c Client) Submit(ctx context.Context, draft Draft) error {
	_, err := c.do(ctx, http.MethodPost, "/submit", draft)
	return err
}

func (c Client) Delete(ctx context.Context, title string) error {
	_, err := c.do(ctx, http.MethodPost, "/delete", map[string]string{"title": title})
	return err
}

func (c Client) GetCode(ctx context.Context, routeName string) (domain.CodePair, error) {
	path := fmt.Sprintf("/get_code?route_name=%s", url.QueryEscape(routeName))
	body, err := c.do(ctx, http.MethodGet, path, nil)

	if err != nil {
		return domain.CodePair{}, err
	}

	return domain.CodePair{
		PythonCode: gjson.GetBytes(body, "python_code").String(),
		HTMLCode:   gjson.GetBytes(body, "html_code").String(),
	}, nil
}

func (c Client) UpdateCode(ctx context.Context, routeName string, pair domain.CodePair) error {
	_, err := c.do(ctx, http.MethodPost, "/update_code", map[string]string{
		"route_name":  routeName,
		"python_code": pair.PythonCode,
		"html_code":   pair.HTMLCode,
	})

	return err
}

func (c Client) Chat(ctx context.Context, routeName string, prompt string) error {
	_, err := c.do(ctx, http.MethodPost, "/chatbot", map[string]string{"title": routeName, "prompt": prompt})
	return err
}
