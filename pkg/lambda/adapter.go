package lambda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Adapter bridges serverless invocations to the embedded application.
// It holds no per-request state and is safe for concurrent use.
type Adapter struct {
	app         Application
	initFailure *Failure
	logger      *logrus.Logger
	metrics     *Metrics
}

// Option configures an Adapter
type Option func(*Adapter)

// WithLogger sets the diagnostic logger; the default writes to stderr
func WithLogger(logger *logrus.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics enables Prometheus accounting
func WithMetrics(m *Metrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// New creates an adapter that owns app for its whole lifetime
func New(app Application, opts ...Option) *Adapter {
	a := &Adapter{
		app:    app,
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Degraded reports whether the application failed to initialize
func (a *Adapter) Degraded() bool {
	return a.initFailure != nil
}

// Handle serves one invocation. It never panics and never returns an error:
// every failure becomes a 500 reply.
func (a *Adapter) Handle(ctx context.Context, event any) Reply {
	return a.Invoke(ctx, event).Reply()
}

// Invoke serves one invocation and reports failures as values
func (a *Adapter) Invoke(ctx context.Context, event any) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Fail(panicFailure(ClassRequest, p))
		}
		if _, f := res.Value(); f != nil {
			a.report(f)
		}
		a.metrics.observe(res.Reply().StatusCode, start)
	}()

	if a.initFailure != nil {
		return Fail(a.initFailure)
	}
	if a.app == nil {
		return Fail(newFailure(ClassInit, errors.New("application is not initialized")))
	}

	reply, err := a.dispatch(ctx, event)
	if err != nil {
		return Fail(newFailure(ClassRequest, err))
	}
	return Success(reply)
}

func (a *Adapter) dispatch(ctx context.Context, event any) (Reply, error) {
	e, err := Normalize(event)
	if err != nil {
		return Reply{}, errors.Wrap(err, "normalize event")
	}

	env := BuildEnviron(e)
	req, err := env.Request(ctx)
	if err != nil {
		return Reply{}, errors.Wrap(err, "translate event")
	}

	resp, err := a.app.Serve(ctx, req)
	if err != nil {
		return Reply{}, errors.Wrapf(err, "%s %s", env.Method, env.Path)
	}
	if resp == nil {
		return Reply{}, errors.Errorf("%s %s: application returned no response", env.Method, env.Path)
	}

	reply, err := buildReply(resp)
	if err != nil {
		return Reply{}, errors.Wrap(err, "translate response")
	}
	return reply, nil
}

func (a *Adapter) report(f *Failure) {
	a.metrics.failure(f.Class)
	a.logger.WithFields(logrus.Fields{
		"class":  string(f.Class),
		"status": 500,
	}).Error(f.Trace)
}

// HandleRaw is the generic entry point for lambda.Start
func (a *Adapter) HandleRaw(ctx context.Context, event json.RawMessage) (Reply, error) {
	return a.Handle(ctx, event), nil
}

// HandleAPIGateway serves API Gateway REST (payload v1) proxy events
func (a *Adapter) HandleAPIGateway(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	reply := a.Handle(ctx, event)
	resp := events.APIGatewayProxyResponse{
		StatusCode: reply.StatusCode,
		Headers:    flatHeaders(reply),
		Body:       reply.Body,
	}
	if len(reply.Cookies) > 0 {
		resp.MultiValueHeaders = map[string][]string{"Set-Cookie": reply.Cookies}
		delete(resp.Headers, "Set-Cookie")
	}
	return resp, nil
}

// HandleV2 serves HTTP API (payload v2) events
func (a *Adapter) HandleV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	reply := a.Handle(ctx, event)
	headers := flatHeaders(reply)
	delete(headers, "Set-Cookie")
	return events.APIGatewayV2HTTPResponse{
		StatusCode: reply.StatusCode,
		Headers:    headers,
		Body:       reply.Body,
		Cookies:    reply.Cookies,
	}, nil
}

func flatHeaders(reply Reply) map[string]string {
	out := make(map[string]string)
	if reply.Headers == nil {
		return out
	}
	for pair := reply.Headers.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
