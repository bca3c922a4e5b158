package infra

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewHTTPClient builds the outbound client shared by the video backend and the
// downloader. Video downloads can be large, so the overall timeout comes from
// configuration while dial and handshake stay short.
func NewHTTPClient(cfg *Config) *http.Client {
	timeout := 60 * time.Second
	preferIPv4 := false
	if cfg != nil {
		if cfg.HTTPTimeout > 0 {
			timeout = cfg.HTTPTimeout
		}
		preferIPv4 = cfg.PreferIPv4
	}

	dialer := &net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if preferIPv4 {
				return dialer.DialContext(ctx, "tcp4", addr)
			}
			return dialer.DialContext(ctx, network, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
