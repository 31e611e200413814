package service

import (
	"errors"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "erp"

type metrics struct {
	decisions *prometheus.CounterVec
	logins    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	constLabels := prometheus.Labels{"machine_id": util.GetMachineID()}
	m := &metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "authorization_decisions_total",
			Help:        "Authorization decisions by role, source and outcome.",
			ConstLabels: constLabels,
		}, []string{"role", "source", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "logins_total",
			Help:        "Login attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	decisions, err := register(reg, m.decisions)
	if err != nil {
		return nil, err
	}
	logins, err := register(reg, m.logins)
	if err != nil {
		return nil, err
	}
	m.decisions, m.logins = decisions, logins
	return m, nil
}

// register reuses an identical collector that is already registered, which
// happens when several services share the default registerer.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}

func (m *metrics) observeDecision(role domain.Role, source string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.decisions.WithLabelValues(role.String(), source, result).Inc()
}

func (m *metrics) observeLogin(result string) {
	m.logins.WithLabelValues(result).Inc()
}
