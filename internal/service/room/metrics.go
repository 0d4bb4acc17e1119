package room

import "github.com/prometheus/client_golang/prometheus"

var (
	roomsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "syncroom_rooms_open", Help: "Rooms currently loaded"},
	)
	membersConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "syncroom_members_connected", Help: "Members joined across all rooms"},
	)
	chatMessages = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "syncroom_chat_messages_total", Help: "Chat messages broadcast"},
	)
	autoleadAdvances = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "syncroom_autolead_advances_total", Help: "Playlist advances triggered by the autolead clock"},
	)
	persistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "syncroom_persist_failures_total", Help: "Failed store operations"},
		[]string{"op"},
	)
	resolveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "syncroom_resolve_failures_total", Help: "Failed metadata lookups"},
		[]string{"type"},
	)
	resolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "syncroom_resolve_duration_seconds",
			Help:    "Metadata lookup time",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"type"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(roomsOpen, membersConnected, chatMessages, autoleadAdvances, persistFailures, resolveFailures, resolveDuration)
}
