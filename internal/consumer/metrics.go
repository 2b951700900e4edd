package consumer

import "github.com/prometheus/client_golang/prometheus"

var (
	mailsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confirmation_mails_sent_total",
		Help: "Confirmation emails sent and acknowledged.",
	})
	mailsRequeued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confirmation_mails_requeued_total",
		Help: "Deliveries negatively acknowledged with requeue after a transport failure.",
	})
	mailsMalformed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confirmation_mails_malformed_total",
		Help: "Undecodable envelopes dropped from the queue.",
	})
)

func init() {
	prometheus.MustRegister(mailsSent, mailsRequeued, mailsMalformed)
}
