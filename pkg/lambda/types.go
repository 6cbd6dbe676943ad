package lambda

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Param is a single key/value pair whose position in its list is significant
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is the fixed internal record every supported inbound payload is normalized into
type Event struct {
	Method  string  `json:"method"`
	Path    string  `json:"path"`
	Query   []Param `json:"query,omitempty"`
	Headers []Param `json:"headers,omitempty"`
	Body    []byte  `json:"body,omitempty"`
}

// Reply is the envelope handed back to the serverless runtime
type Reply struct {
	StatusCode int                                   `json:"statusCode"`
	Headers    *orderedmap.OrderedMap[string, string] `json:"headers"`
	Body       string                                `json:"body"`
	Cookies    []string                              `json:"cookies,omitempty"`
}

// NewReply returns a reply with an empty, ready-to-use header map
func NewReply(status int) Reply {
	return Reply{
		StatusCode: status,
		Headers:    orderedmap.New[string, string](),
	}
}

// Header returns the value stored for name, matching it case-insensitively
func (r Reply) Header(name string) (string, bool) {
	if r.Headers == nil {
		return "", false
	}
	if v, ok := r.Headers.Get(name); ok {
		return v, true
	}
	canonical := http.CanonicalHeaderKey(name)
	for pair := r.Headers.Oldest(); pair != nil; pair = pair.Next() {
		if http.CanonicalHeaderKey(pair.Key) == canonical {
			return pair.Value, true
		}
	}
	return "", false
}

// JSON encodes the reply with headers in insertion order
func (r Reply) JSON() ([]byte, error) {
	if r.Headers == nil {
		r.Headers = orderedmap.New[string, string]()
	}
	return json.MarshalIndent(r, "", "  ")
}

// HeaderField is one header line produced by the application
type HeaderField struct {
	Name  string
	Value string
}

// Response is what the embedded application produces for one request
type Response interface {
	StatusCode() int
	Header() []HeaderField
}

// ContentResponse exposes its payload directly
type ContentResponse interface {
	Response
	Content() []byte
}

// StreamingResponse exposes its payload as a sequence of chunks
type StreamingResponse interface {
	Response
	Chunks() iter.Seq[[]byte]
}

// Application is the embedded web application the adapter dispatches into
type Application interface {
	Serve(ctx context.Context, req *http.Request) (Response, error)
}

// ApplicationFunc adapts a plain function to Application
type ApplicationFunc func(ctx context.Context, req *http.Request) (Response, error)

// Serve calls f(ctx, req)
func (f ApplicationFunc) Serve(ctx context.Context, req *http.Request) (Response, error) {
	return f(ctx, req)
}
