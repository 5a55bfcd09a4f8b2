// Package client is a small REST client for a running co2d instance, used by
// the CLI.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"co2-predictor/internal/encoding"
	"co2-predictor/internal/web"
)

type Client struct {
	base string
	rest *resty.Client
}

func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(10 * time.Second) // default fallback
	}
	return &Client{base: base, rest: r}
}

type apiError struct {
	Error string `json:"error"`
}

// Predict submits one prediction request and returns the server's response.
func (c *Client) Predict(ctx context.Context, in encoding.Input) (*web.PredictResponse, error) {
	result := &web.PredictResponse{}
	errBody := &apiError{}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(result).
		SetError(errBody).
		Post(c.base + "/api/v1/predict")
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	if resp.IsError() {
		if errBody.Error != "" {
			return nil, fmt.Errorf("predict: %s (%s)", errBody.Error, resp.Status())
		}
		return nil, fmt.Errorf("predict: %s", resp.Status())
	}
	return result, nil
}
