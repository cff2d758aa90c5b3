// Package metrics turns conversation events into Prometheus counters.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyjia/voucher-bot/internal/application/dispatcher"
	domainconv "github.com/garyjia/voucher-bot/internal/domain/conversation"
	"github.com/garyjia/voucher-bot/internal/domain/event"
)

const namespace = "voucher_bot"

// Recorder counts conversation activity on its own registry
type Recorder struct {
	registry *prometheus.Registry

	conversationsTotal    *prometheus.CounterVec
	appendsTotal          *prometheus.CounterVec
	amountRejectionsTotal prometheus.Counter
	messagesTotal         *prometheus.CounterVec
}

// NewRecorder creates a recorder. Go runtime and process collectors are
// registered alongside the bot counters.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		conversationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversations_total",
				Help:      "Conversations by outcome (started, completed, cancelled)",
			},
			[]string{"outcome"},
		),
		appendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "appends_total",
				Help:      "Voucher row appends by result",
			},
			[]string{"result"},
		),
		amountRejectionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "amount_rejections_total",
				Help:      "Amount inputs that did not parse as a number",
			},
		),
		messagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_total",
				Help:      "Inbound text messages by kind (command or text)",
			},
			[]string{"kind"},
		),
	}
}

// Register subscribes the recorder to every event on d
func (r *Recorder) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(dispatcher.AnyType, "metrics-recorder", r.Observe)
}

// Observe updates counters for one event. It never fails.
func (r *Recorder) Observe(_ context.Context, evt *event.Event) error {
	switch evt.Type {
	case event.TypeMessageReceived:
		kind := "text"
		if domainconv.ParseCommand(evt.GetPayloadString(event.PayloadText)) != domainconv.CommandNone {
			kind = "command"
		}
		r.messagesTotal.WithLabelValues(kind).Inc()
	case event.TypeConversationStarted:
		r.conversationsTotal.WithLabelValues("started").Inc()
	case event.TypeConversationCompleted:
		r.conversationsTotal.WithLabelValues("completed").Inc()
	case event.TypeConversationCancelled:
		r.conversationsTotal.WithLabelValues("cancelled").Inc()
	case event.TypeAmountRejected:
		r.amountRejectionsTotal.Inc()
	case event.TypeVoucherRecorded:
		r.appendsTotal.WithLabelValues("ok").Inc()
	case event.TypeVoucherAppendFailed:
		reason := evt.GetPayloadString(event.PayloadReason)
		if reason == "" {
			reason = "error"
		}
		r.appendsTotal.WithLabelValues(reason).Inc()
	}
	return nil
}

// Registry exposes the underlying registry, mostly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
