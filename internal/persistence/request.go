package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

type reqConfig struct {
	Method  string
	Url     string
	Headers []string
	Body    []byte
}

func read(reader io.ReadCloser) ([]byte, error) {
	var err error

	defer func() {
		err = reader.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	var content []byte
	content, err = io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	return content, nil
}

func request(ctx context.Context, config reqConfig, expectedResCode int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, config.Method, config.Url, bytes.NewBuffer(config.Body))

	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		headerKV := strings.SplitN(config.Headers[i], ":", 2)
		req.Header.Add(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return nil, err
	}

	body, err := read(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != expectedResCode {
		return nil, fmt.Errorf("unexpected response status code %d: %s", resp.StatusCode, body)
	}

	return body, nil
}
