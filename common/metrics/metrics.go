package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var CheckoutSessionsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rent_hub_checkout_sessions_created_total",
		Help: "Checkout sessions successfully created, by gateway provider.",
	},
	[]string{"provider"},
)

var CheckoutSessionsFailed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rent_hub_checkout_sessions_failed_total",
		Help: "Checkout session attempts that the provider rejected.",
	},
	[]string{"provider"},
)

var WebhookEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rent_hub_webhook_events_total",
		Help: "Inbound webhook deliveries, by provider and verification result.",
	},
	[]string{"provider", "result"},
)
