package lambda

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	headerPrefix  = "HTTP_"
	defaultScheme = "https"
	defaultPort   = "80"
	defaultHost   = "localhost"
)

// Environ is the synthetic request record built from an Event
type Environ struct {
	Method        string
	Path          string
	QueryString   string
	ContentType   string
	ContentLength int64
	ServerName    string
	ServerPort    string
	Scheme        string
	// Headers holds the HTTP_* fields in event order
	Headers []Param
	Body    io.Reader
}

// Get returns the value of a prefixed header field such as HTTP_X_CUSTOM
func (env *Environ) Get(name string) (string, bool) {
	for _, h := range env.Headers {
		if h.Key == name {
			return h.Value, true
		}
	}
	return "", false
}

// BuildEnviron translates an event into the synthetic request record.
// content-type and content-length never appear as prefixed fields, and neither
// does host, which is split into ServerName and ServerPort.
func BuildEnviron(e *Event) *Environ {
	if e == nil {
		e = &Event{}
	}
	e.withDefaults()

	env := &Environ{
		Method:      e.Method,
		Path:        e.Path,
		QueryString: joinQuery(e.Query),
		Scheme:      defaultScheme,
		ServerPort:  defaultPort,
	}

	for _, h := range e.Headers {
		switch strings.ToLower(h.Key) {
		case "content-type":
			env.ContentType = h.Value
			continue
		case "content-length":
			continue
		case "host":
			name, port, found := strings.Cut(h.Value, ":")
			env.ServerName = name
			if found && port != "" {
				env.ServerPort = port
			}
			continue
		case "x-forwarded-proto":
			if h.Value != "" {
				env.Scheme = h.Value
			}
		}
		env.Headers = append(env.Headers, Param{Key: environKey(h.Key), Value: h.Value})
	}

	body := e.Body
	if body == nil {
		body = []byte{}
	}
	env.ContentLength = int64(len(body))
	env.Body = bytes.NewReader(body)

	return env
}

// Request builds the *http.Request dispatched into the application. The path,
// query string and host are carried over verbatim; a path with an invalid
// escape is kept undecoded instead of being rejected.
func (env *Environ) Request(ctx context.Context) (*http.Request, error) {
	path := env.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := path
	if env.QueryString != "" {
		target += "?" + env.QueryString
	}

	host := env.ServerName
	if host == "" {
		host = defaultHost
	}
	if env.ServerPort != "" && env.ServerPort != defaultPort {
		host += ":" + env.ServerPort
	}

	u := &url.URL{Scheme: env.Scheme, Host: host, Path: path, RawQuery: env.QueryString}
	if decoded, err := url.PathUnescape(path); err == nil {
		u.Path = decoded
		if decoded != path {
			u.RawPath = path
		}
	}

	body := env.Body
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, env.Method, "/", body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.URL = u
	req.RequestURI = target
	req.Host = host
	req.ContentLength = env.ContentLength

	for _, h := range env.Headers {
		req.Header.Add(headerName(h.Key), h.Value)
	}
	if env.ContentType != "" {
		req.Header.Set("Content-Type", env.ContentType)
	}

	return req, nil
}

// joinQuery serializes params in order without re-encoding them
func joinQuery(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Key+"="+p.Value)
	}
	return strings.Join(parts, "&")
}

func environKey(name string) string {
	return headerPrefix + strings.ReplaceAll(strings.ToUpper(name), "-", "_")
}

func headerName(key string) string {
	return http.CanonicalHeaderKey(strings.ReplaceAll(strings.TrimPrefix(key, headerPrefix), "_", "-"))
}
