package gateway

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
)

type route struct {
	prefix   string
	upstream *url.URL
	proxy    *httputil.ReverseProxy
}

// Router forwards requests to the upstream owning the longest matching
// path prefix.
type Router struct {
	routes      []*route
	stripPrefix string
	logger      *slog.Logger
}

type RouterConfig struct {
	// Routes maps a gateway path prefix to an upstream base URL.
	Routes          map[string]string
	StripPrefix     string
	UpstreamTimeout time.Duration
	Transport       http.RoundTripper
}

func NewRouter(cfg RouterConfig, lg *slog.Logger) (*Router, error) {
	rt := &Router{
		stripPrefix: strings.TrimSuffix(cfg.StripPrefix, "/"),
		logger:      lg,
	}

	tr := cfg.Transport
	if tr == nil {
		tr = newTransport(cfg.UpstreamTimeout)
	}

	for prefix, raw := range cfg.Routes {
		target, err := url.Parse(raw)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("gateway: route %q: invalid upstream %q", prefix, raw)
		}
		if !strings.HasPrefix(prefix, "/") {
			return nil, fmt.Errorf("gateway: route prefix %q must start with /", prefix)
		}
		rt.routes = append(rt.routes, &route{
			prefix:   prefix,
			upstream: target,
			proxy:    rt.newProxy(target, tr),
		})
	}

	sort.Slice(rt.routes, func(i, j int) bool {
		if len(rt.routes[i].prefix) != len(rt.routes[j].prefix) {
			return len(rt.routes[i].prefix) > len(rt.routes[j].prefix)
		}
		return rt.routes[i].prefix < rt.routes[j].prefix
	})

	return rt, nil
}

func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
}

func (rt *Router) newProxy(target *url.URL, tr http.RoundTripper) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = rt.strip(pr.In.URL.Path)
			if pr.In.URL.RawPath != "" {
				pr.Out.URL.RawPath = rt.strip(pr.In.URL.RawPath)
			}
			pr.SetURL(target)
			// X-Forwarded-For is rebuilt from the connection; client IP
			// hints are not forwarded.
			pr.Out.Header.Del("X-Real-IP")
			pr.Out.Header.Del("True-Client-IP")
			pr.SetXForwarded()
		},
		Transport: tr,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			rt.logger.ErrorContext(r.Context(), "upstream request failed",
				"upstream", target.Host,
				"path", r.URL.Path,
				"error", err,
			)
			transport.WriteJSON(w, http.StatusBadGateway,
				transport.NewErrorResponse(internal.ErrUpstreamUnavailable.Message), rt.logger)
		},
	}
}

func (rt *Router) strip(path string) string {
	if rt.stripPrefix == "" || !strings.HasPrefix(path, rt.stripPrefix) {
		return path
	}
	stripped := path[len(rt.stripPrefix):]
	if stripped == "" {
		return "/"
	}
	return stripped
}

// Match returns the upstream for path.
func (rt *Router) Match(path string) (*url.URL, bool) {
	r := rt.match(path)
	if r == nil {
		return nil, false
	}
	return r.upstream, true
}

func (rt *Router) match(path string) *route {
	for _, r := range rt.routes {
		if hasPathPrefix(path, r.prefix) {
			return r
		}
	}
	return nil
}

// hasPathPrefix matches whole path segments, so /api/auth does not own
// /api/authority.
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || strings.HasSuffix(prefix, "/") || path[len(prefix)] == '/'
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := rt.match(r.URL.Path)
	if target == nil {
		transport.WriteJSON(w, http.StatusNotFound,
			transport.NewErrorResponse(internal.ErrRouteNotFound.Message), rt.logger)
		return
	}
	target.proxy.ServeHTTP(w, r)
}
