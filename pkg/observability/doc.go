/*
Package observability turns engine lifecycle hooks into Prometheus metrics
and structured log lines.

	m := observability.NewMetrics()
	m.MustRegister(prometheus.DefaultRegisterer)

	g := arbor.New(seed, arbor.WithLifecycleHooks(m.Hooks("tree")))
*/
package observability
