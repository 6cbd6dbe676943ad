package lambda

import (
	"github.com/pkg/errors"
)

// InitFunc builds the embedded application
type InitFunc func() (Application, error)

// Bootstrap runs init exactly once, before the runtime entry point is registered,
// and hands the resulting application to a new Adapter. When init fails or panics
// the adapter is still returned, degraded: every call replies 500 with the
// captured diagnostic.
func Bootstrap(init InitFunc, opts ...Option) *Adapter {
	app, failure := runInit(init)
	a := New(app, opts...)
	if failure != nil {
		a.initFailure = failure
		a.app = nil
		a.report(failure)
	}
	return a
}

func runInit(init InitFunc) (app Application, failure *Failure) {
	defer func() {
		if p := recover(); p != nil {
			app = nil
			failure = panicFailure(ClassInit, p)
		}
	}()

	if init == nil {
		return nil, newFailure(ClassInit, errors.New("no application initializer"))
	}

	app, err := init()
	if err != nil {
		return nil, newFailure(ClassInit, errors.Wrap(err, "initialize application"))
	}
	if app == nil {
		return nil, newFailure(ClassInit, errors.New("initializer returned no application"))
	}
	return app, nil
}
