package login

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted = "accepted"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// loginAttempts counts login form submissions by outcome.
var loginAttempts = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Number of login form submissions, differentiated by outcome.",
	},
	[]string{"outcome"},
)
