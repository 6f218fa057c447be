package services

import (
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
)

const DEFAULT_HTTP_TIMEOUT = 10 * time.Second

// ServiceHTTP is embedded by services that call out to external endpoints.
type ServiceHTTP struct{}

func (service *ServiceHTTP) httpClient(timeout time.Duration) *httpclient.Client {
	if timeout == 0 {
		timeout = DEFAULT_HTTP_TIMEOUT
	}

	return httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetryCount(2),
	)
}
