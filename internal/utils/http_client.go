// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Retries are not configured here: transports wrap calls in their own
// retry policy so that the outcome is only recorded once it is definitive.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client for baseURL with a per-request timeout.
// A zero timeout leaves resty's default (none).
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://insurer.example", 15*time.Second)
//	resp, err := client.R().SetBody(payload).Post("/claims/audit")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
