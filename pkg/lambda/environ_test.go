package lambda

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnviron_QueryStringInOrder(t *testing.T) {
	env := BuildEnviron(&Event{Query: []Param{{"a", "1"}, {"b", "2"}}})
	assert.Equal(t, "a=1&b=2", env.QueryString)

	env = BuildEnviron(&Event{Query: []Param{{"q", "a%20b"}, {"x", "y+z"}}})
	assert.Equal(t, "q=a%20b&x=y+z", env.QueryString)
}

func TestBuildEnviron_Headers(t *testing.T) {
	env := BuildEnviron(&Event{Headers: []Param{
		{"content-type", "application/json"},
		{"x-custom", "v"},
		{"Content-Length", "999"},
	}})

	assert.Equal(t, "application/json", env.ContentType)
	_, ok := env.Get("HTTP_CONTENT_TYPE")
	assert.False(t, ok)
	_, ok = env.Get("HTTP_CONTENT_LENGTH")
	assert.False(t, ok)

	v, ok := env.Get("HTTP_X_CUSTOM")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, int64(0), env.ContentLength)
}

func TestBuildEnviron_Host(t *testing.T) {
	tests := []struct {
		host     string
		wantName string
		wantPort string
	}{
		{"example.com:8080", "example.com", "8080"},
		{"example.com", "example.com", "80"},
		{"example.com:", "example.com", "80"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			env := BuildEnviron(&Event{Headers: []Param{{"Host", tt.host}}})
			assert.Equal(t, tt.wantName, env.ServerName)
			assert.Equal(t, tt.wantPort, env.ServerPort)
			_, ok := env.Get("HTTP_HOST")
			assert.False(t, ok)
		})
	}
}

func TestBuildEnviron_Body(t *testing.T) {
	env := BuildEnviron(&Event{Body: []byte("hello")})
	assert.Equal(t, int64(5), env.ContentLength)

	data, err := io.ReadAll(env.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	env = BuildEnviron(&Event{Body: []byte("こんにちは")})
	assert.Equal(t, int64(15), env.ContentLength)
}

func TestBuildEnviron_Scheme(t *testing.T) {
	assert.Equal(t, "https", BuildEnviron(&Event{}).Scheme)

	env := BuildEnviron(&Event{Headers: []Param{{"X-Forwarded-Proto", "http"}}})
	assert.Equal(t, "http", env.Scheme)
}

func TestEnviron_Request(t *testing.T) {
	env := BuildEnviron(&Event{
		Method:  "POST",
		Path:    "/members/new/",
		Query:   []Param{{"next", "/members/"}},
		Headers: []Param{{"host", "dash.example.com:8443"}, {"content-type", "text/plain"}, {"x-request-id", "abc"}},
		Body:    []byte("payload"),
	})

	req, err := env.Request(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/members/new/", req.URL.Path)
	assert.Equal(t, "next=/members/", req.URL.RawQuery)
	assert.Equal(t, "dash.example.com:8443", req.Host)
	assert.Equal(t, "https", req.URL.Scheme)
	assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
	assert.Equal(t, "abc", req.Header.Get("X-Request-Id"))
	assert.Equal(t, int64(7), req.ContentLength)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
}

func TestEnviron_RequestDefaultsHost(t *testing.T) {
	req, err := BuildEnviron(&Event{}).Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "localhost", req.Host)
	assert.Equal(t, "/", req.URL.Path)
}

func TestEnviron_RequestKeepsPathAndHostVerbatim(t *testing.T) {
	env := BuildEnviron(&Event{
		Path:    "/a%zz",
		Query:   []Param{{Key: "x", Value: "1"}},
		Headers: []Param{{Key: "host", Value: "example.com:abc"}},
	})
	req, err := env.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/a%zz", req.URL.Path)
	assert.Equal(t, "/a%zz?x=1", req.RequestURI)
	assert.Equal(t, "example.com:abc", req.Host)

	encoded, err := BuildEnviron(&Event{Path: "/members/%E5%B1%B1%E7%94%B0"}).Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/members/山田", encoded.URL.Path)
	assert.Equal(t, "/members/%E5%B1%B1%E7%94%B0", encoded.URL.EscapedPath())
}

func TestEnviron_RequestRejectsBadMethod(t *testing.T) {
	_, err := BuildEnviron(&Event{Method: "BAD METHOD"}).Request(context.Background())
	assert.Error(t, err)
}
