package llm

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ProxyConfig describes an outbound proxy for provider API calls, either
// global or attached to one config. When Enabled is false the other fields
// are carried but not validated.
type ProxyConfig struct {
	Enabled  bool   `json:"enabled"`
	Protocol string `json:"protocol"` // http, https, socks5
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Validate checks a proxy configuration. Disabled proxies always pass.
func (p *ProxyConfig) Validate() error {
	if p == nil || !p.Enabled {
		return nil
	}
	switch p.Protocol {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("unsupported proxy protocol: %q", p.Protocol)
	}
	if strings.TrimSpace(p.Host) == "" {
		return errors.New("proxy host is required")
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("proxy port out of range: %d", p.Port)
	}
	return nil
}

// URL renders the proxy as a URL, or nil when the proxy is disabled.
func (p *ProxyConfig) URL() *url.URL {
	if p == nil || !p.Enabled {
		return nil
	}
	u := &url.URL{
		Scheme: p.Protocol,
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
	}
	if p.Username != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.Username, p.Password)
		} else {
			u.User = url.User(p.Username)
		}
	}
	return u
}
