// Package metrics defines the Prometheus instruments for the engagement
// economy. Counters are registered once via promauto and exported on the
// API server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessageRewards counts message-threshold rewards credited.
	MessageRewards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staffbot_message_rewards_total",
		Help: "Message-threshold rewards credited.",
	})

	// VCRewards counts voice-presence minutes rewarded.
	VCRewards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staffbot_vc_rewards_total",
		Help: "Voice-presence minutes rewarded.",
	})

	// AFKMoves counts move-to-AFK attempts by result.
	AFKMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffbot_afk_moves_total",
		Help: "Move-to-AFK attempts by result.",
	}, []string{"result"})

	// Redemptions counts redemption lifecycle events.
	Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffbot_redemptions_total",
		Help: "Redemption lifecycle events (created, approved, denied).",
	}, []string{"event"})

	// Commands counts dispatched chat commands by name.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffbot_commands_total",
		Help: "Chat commands dispatched, by command name.",
	}, []string{"command"})

	// DeliveryFailures counts swallowed best-effort delivery failures.
	DeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffbot_delivery_failures_total",
		Help: "Best-effort notification/move failures (logged and discarded).",
	}, []string{"op"})
)
