package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"personahub/internal/logger"

	"golang.org/x/net/proxy"
)

// DefaultHTTPTimeout bounds provider calls when no timeout is configured.
const DefaultHTTPTimeout = 60 * time.Second

// NewHTTPClient creates an HTTP client for provider calls, honoring the
// per-config proxy when set, otherwise the global proxy, otherwise direct.
func NewHTTPClient(cfg *Config, global *ProxyConfig, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	client := &http.Client{Timeout: timeout}

	proxyCfg := global
	if cfg != nil && cfg.Proxy != nil && cfg.Proxy.Enabled {
		proxyCfg = cfg.Proxy
	}
	if transport := buildProxyTransport(proxyCfg); transport != nil {
		client.Transport = transport
	}
	return client
}

// TestProxy checks that the proxy can reach the outside world by fetching
// a no-content probe URL through it.
func TestProxy(ctx context.Context, p *ProxyConfig) error {
	if p == nil || !p.Enabled {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	transport := buildProxyTransport(p)
	if transport == nil {
		return fmt.Errorf("cannot build transport for proxy %s://%s:%d", p.Protocol, p.Host, p.Port)
	}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.gstatic.com/generate_204", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("proxy test failed: %w", err)
	}
	resp.Body.Close()
	return nil
}

// buildProxyTransport creates an http.Transport for the proxy config.
// Supports http, https, and socks5.
func buildProxyTransport(p *ProxyConfig) *http.Transport {
	u := p.URL()
	if u == nil {
		return nil
	}

	switch u.Scheme {
	case "socks5":
		return buildSOCKS5Transport(u)
	case "http", "https":
		return &http.Transport{Proxy: http.ProxyURL(u)}
	default:
		logger.Warn("[LLM] unsupported proxy scheme: %s", u.Scheme)
		return nil
	}
}

func buildSOCKS5Transport(u *url.URL) *http.Transport {
	var auth *proxy.Auth
	if u.User != nil {
		password, _ := u.User.Password()
		auth = &proxy.Auth{User: u.User.Username(), Password: password}
	}

	dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
	if err != nil {
		logger.Warn("[LLM] create SOCKS5 dialer failed: %v", err)
		return nil
	}

	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
}
