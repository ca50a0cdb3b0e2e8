package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_signups_total",
		Help: "Total number of successful user signups.",
	})

	signinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_signins_total",
		Help: "Total number of successful user signins.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of token verification attempts by status.",
		},
		[]string{"status"},
	)

	recordUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_upserts_total",
			Help: "Total number of successful record upserts by entity.",
		},
		[]string{"entity"},
	)
)
