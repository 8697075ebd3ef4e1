package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess            = "success"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeDisabled           = "account_disabled"
	outcomeThrottled          = "throttled"
	outcomeInvalidInput       = "invalid_input"
	outcomePasswordMismatch   = "password_mismatch"
	outcomeDuplicateUsername  = "duplicate_username"
	outcomeDuplicateEmail     = "duplicate_email"
	outcomeInvalidAddressType = "invalid_address_type"
	outcomeError              = "error"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)
)
