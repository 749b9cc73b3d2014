package health

import (
	"github.com/go-chi/chi/v5"
	"github.com/heptiolabs/healthcheck"
)

type opts struct {
	ChiMux          *chi.Mux
	ReadinessChecks map[string]healthcheck.Check
}

type Opt func(*opts)

func WithChiMux(mux *chi.Mux) Opt {
	return func(o *opts) {
		o.ChiMux = mux
	}
}

// WithReadinessCheck registers a named readiness check; a failing check flips
// /readiness to 5xx while leaving /liveness untouched.
func WithReadinessCheck(name string, check healthcheck.Check) Opt {
	return func(o *opts) {
		if o.ReadinessChecks == nil {
			o.ReadinessChecks = map[string]healthcheck.Check{}
		}
		o.ReadinessChecks[name] = check
	}
}
