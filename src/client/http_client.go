package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HttpClient struct {
	Timeout time.Duration
}

func (h *HttpClient) client() *http.Client {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
	}
}

func (h *HttpClient) Get(url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	return h.do(req)
}

func (h *HttpClient) do(req *http.Request) ([]byte, error) {
	res, err := h.client().Do(req)

	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, errors.New(fmt.Sprintf("Request [%s] failed with error code: %d", req.URL.String(), res.StatusCode))
	}

	responseBody, err := io.ReadAll(res.Body)

	if err != nil {
		return nil, err
	}

	return responseBody, nil
}
