package collab

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roomsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stage",
		Subsystem: "collab",
		Name:      "rooms",
		Help:      "Rooms with at least one connected client.",
	})

	clientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stage",
		Subsystem: "collab",
		Name:      "clients",
		Help:      "Connected websocket clients.",
	})

	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "collab",
		Name:      "messages_sent_total",
		Help:      "Messages queued to clients, by message type.",
	}, []string{"type"})

	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "collab",
		Name:      "messages_dropped_total",
		Help:      "Messages dropped because a client send buffer was full.",
	})

	opsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "collab",
		Name:      "ops_total",
		Help:      "Submitted operations, by outcome.",
	}, []string{"outcome"})
)
