// Package metrics содержит прометеевские метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SignupsAccepted — счетчик принятых заявок с разбивкой по источнику.
var SignupsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sisterhood_signups_accepted_total",
	Help: "Total number of signups stored, by entry source.",
}, []string{"entry_source"})

// SignupsRejected — счетчик отклоненных публичных заявок с причиной отказа.
var SignupsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sisterhood_signups_rejected_total",
	Help: "Total number of rejected public signup attempts, by reason.",
}, []string{"reason"})
