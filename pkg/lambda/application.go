package lambda

import (
	"bytes"
	"context"
	"net/http"
	"sort"
)

// HandlerApplication adapts an http.Handler, such as a Gin engine, to Application.
// The handler runs synchronously and its output is captured in memory.
func HandlerApplication(h http.Handler) Application {
	return ApplicationFunc(func(ctx context.Context, req *http.Request) (Response, error) {
		rec := newRecorder()
		h.ServeHTTP(rec, req.WithContext(ctx))
		return recordedResponse{rec: rec}, nil
	})
}

// recorder is an http.ResponseWriter that keeps the response for the adapter
type recorder struct {
	header      http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *recorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(p)
}

// Flush satisfies http.Flusher for handlers that stream
func (r *recorder) Flush() {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
}

func (r *recorder) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Header fields come out in canonical-name order, the order net/http writes them
func (r *recorder) headerFields() []HeaderField {
	names := make([]string, 0, len(r.header))
	for name := range r.header {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]HeaderField, 0, len(names))
	for _, name := range names {
		for _, v := range r.header[name] {
			fields = append(fields, HeaderField{Name: name, Value: v})
		}
	}
	return fields
}

func (r *recorder) Content() []byte {
	return r.body.Bytes()
}

// recordedResponse hides the ResponseWriter methods behind the Response contract
type recordedResponse struct{ rec *recorder }

func (r recordedResponse) StatusCode() int       { return r.rec.StatusCode() }
func (r recordedResponse) Header() []HeaderField { return r.rec.headerFields() }
func (r recordedResponse) Content() []byte       { return r.rec.Content() }
