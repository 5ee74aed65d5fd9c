package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	onlineConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rendezvous_online_connections",
		Help: "Number of currently connected clients",
	})

	activeRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rendezvous_active_rooms",
		Help: "Number of currently paired rooms",
	})

	waitingClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rendezvous_waiting_clients",
		Help: "Number of clients waiting in the match queue",
	})

	connectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rendezvous_connections_total",
		Help: "Total number of client connections accepted",
	})

	matchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rendezvous_matches_total",
		Help: "Total number of pairings made",
	})

	messagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rendezvous_messages_relayed_total",
		Help: "Total number of messages relayed between room members",
	}, []string{"type"})

	messagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rendezvous_messages_dropped_total",
		Help: "Total number of outbound messages dropped on unwritable links",
	}, []string{"type"})
)
