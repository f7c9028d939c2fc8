package application

import "expvar"

var (
	loginsTotal        = expvar.NewInt("auth_logins_total")
	loginFailuresTotal = expvar.NewInt("auth_login_failures_total")
	registrationsTotal = expvar.NewInt("auth_registrations_total")
	upgradesTotal      = expvar.NewInt("subscription_changes_total")
)
