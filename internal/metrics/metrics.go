// Package metrics exposes Prometheus counters for claim outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimsIssued counts coupons issued through rotation.
	ClaimsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_claims_issued_total",
		Help: "Coupons issued through rotation.",
	})

	// ClaimsRepeated counts claim attempts answered from an existing claim token.
	ClaimsRepeated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_claims_repeated_total",
		Help: "Claim attempts answered from an existing claim token.",
	})

	// ClaimsRateLimited counts claim attempts rejected by the cooldown gate.
	ClaimsRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_claims_rate_limited_total",
		Help: "Claim attempts rejected by the cooldown gate.",
	})

	// ClaimsPoolEmpty counts claim attempts rejected because no coupons are active.
	ClaimsPoolEmpty = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_claims_pool_empty_total",
		Help: "Claim attempts rejected because no coupons are active.",
	})
)
