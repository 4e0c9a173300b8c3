package cmd

import (
	"net"
	"net/http"
	"time"

	"github.com/killallgit/madchat/pkg/config"
	"github.com/killallgit/madchat/pkg/stream"
)

// newStreamClient builds the endpoint client. The connect timeout bounds
// dialing and waiting for response headers only; a streamed body may take
// as long as the answer does.
func newStreamClient(endpoint config.EndpointConfig) *stream.Client {
	dialer := &net.Dialer{
		Timeout:   endpoint.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.ResponseHeaderTimeout = endpoint.ConnectTimeout

	opts := []stream.Option{
		stream.WithHTTPClient(&http.Client{Transport: transport}),
		stream.WithSentinel(endpoint.Sentinel),
	}
	if len(endpoint.Headers) > 0 {
		opts = append(opts, stream.WithHeaders(endpoint.Headers))
	}
	if endpoint.MaxEventSize > 0 {
		opts = append(opts, stream.WithMaxEventSize(endpoint.MaxEventSize))
	}
	return stream.NewClient(endpoint.URL, opts...)
}
