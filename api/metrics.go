package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ProxiedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gkap_proxied_requests_total",
	Help: "Requests forwarded to the cluster, by method and upstream status.",
}, []string{"method", "status"})

var PluginInvocations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gkap_auth_plugin_invocations_total",
	Help: "Invocations of the exec credential plugin.",
})
