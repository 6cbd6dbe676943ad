package lambda

import (
	"fmt"
	"html"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
)

const htmlContentType = "text/html; charset=utf-8"

// FailureClass tells an initialization failure from a per-request one
type FailureClass string

const (
	ClassInit    FailureClass = "init"
	ClassRequest FailureClass = "request"
)

// Failure carries everything needed to render and log a 500 reply
type Failure struct {
	Class FailureClass
	Err   error
	Trace string
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// stackTracer is implemented by errors created or wrapped with github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

func newFailure(class FailureClass, err error) *Failure {
	var st stackTracer
	if !errors.As(err, &st) {
		err = errors.WithStack(err)
	}
	return &Failure{
		Class: class,
		Err:   err,
		Trace: fmt.Sprintf("%+v", err),
	}
}

func panicFailure(class FailureClass, recovered any) *Failure {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	return &Failure{
		Class: class,
		Err:   errors.Wrap(err, "panic"),
		Trace: fmt.Sprintf("panic: %v\n\n%s", recovered, debug.Stack()),
	}
}

// Reply renders the uniform 500 page
func (f *Failure) Reply() Reply {
	reply := NewReply(http.StatusInternalServerError)
	reply.Headers.Set("Content-Type", htmlContentType)

	title := "Server Error (500)"
	if f.Class == ClassInit {
		title = "Application failed to start"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>")
	b.WriteString(title)
	b.WriteString("</title></head>\n<body>\n<h1>")
	b.WriteString(title)
	b.WriteString("</h1>\n<p>")
	b.WriteString(html.EscapeString(f.Err.Error()))
	b.WriteString("</p>\n<pre>")
	b.WriteString(html.EscapeString(f.Trace))
	b.WriteString("</pre>\n</body>\n</html>\n")
	reply.Body = b.String()

	return reply
}

// Result is either a reply or the failure that prevented one
type Result struct {
	reply   Reply
	failure *Failure
}

func Success(reply Reply) Result {
	return Result{reply: reply}
}

func Fail(f *Failure) Result {
	return Result{failure: f}
}

// Value returns the reply and the failure; exactly one is meaningful
func (r Result) Value() (Reply, *Failure) {
	return r.reply, r.failure
}

func (r Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// Reply converts the result into what the runtime receives
func (r Result) Reply() Reply {
	if r.failure != nil {
		return r.failure.Reply()
	}
	return r.reply
}

// buildReply copies status, headers in application order, and the decoded payload
func buildReply(resp Response) (Reply, error) {
	reply := NewReply(resp.StatusCode())

	for _, field := range resp.Header() {
		if strings.EqualFold(field.Name, "Set-Cookie") {
			reply.Cookies = append(reply.Cookies, field.Value)
			reply.Headers.Set(field.Name, field.Value)
			continue
		}
		if existing, ok := reply.Headers.Get(field.Name); ok {
			reply.Headers.Set(field.Name, existing+", "+field.Value)
			continue
		}
		reply.Headers.Set(field.Name, field.Value)
	}

	payload, err := payloadOf(resp)
	if err != nil {
		return Reply{}, err
	}
	reply.Body = decodeText(payload)

	return reply, nil
}

func payloadOf(resp Response) ([]byte, error) {
	switch r := resp.(type) {
	case ContentResponse:
		return r.Content(), nil
	case StreamingResponse:
		var buf []byte
		for chunk := range r.Chunks() {
			buf = append(buf, chunk...)
		}
		return buf, nil
	}
	return nil, errors.Errorf("response %T exposes neither Content nor Chunks", resp)
}

// decodeText never fails; invalid sequences become U+FFFD
func decodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
