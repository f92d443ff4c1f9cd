package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Successful user registrations.",
	})
	mLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Successful logins.",
	})
	mLoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_login_failures_total",
		Help: "Rejected logins (unknown account or bad password).",
	})
	mRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_refreshes_total",
		Help: "Successful refresh-token rotations.",
	})
	mResetRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_password_reset_requests_total",
		Help: "Reset links issued (existing accounts only).",
	})
	mResetCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_password_resets_total",
		Help: "Passwords changed through a reset token.",
	})
	mResetEmailErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_reset_email_errors_total",
		Help: "Reset emails that failed to send (swallowed).",
	})
)
