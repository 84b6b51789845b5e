package application

import "expvar"

// Published on /debug/vars.
var (
	metricSignupInitiated    = expvar.NewInt("signup_initiated")
	metricSignupConfirmed    = expvar.NewInt("signup_confirmed")
	metricSignupExpired      = expvar.NewInt("signup_expired")
	metricSignupCodeRejected = expvar.NewInt("signup_code_rejected")
	metricSigninSucceeded    = expvar.NewInt("signin_succeeded")
	metricSigninFailed       = expvar.NewInt("signin_failed")
)
