package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
)

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *chi.Mux, m *MiddlewareMap) *chi.Mux {
	router.Get("/ops/configs", m.ops(api.GetConfigs))
	router.Get("/ops/stats", m.ops(api.GetStatistics))
	router.Get("/ops/maintenance", m.ops(api.Maintenance))
	router.Get("/ops/events", m.ops(api.GetEvents))
	router.Get("/ops/metrics", m.ops(api.OpsHandlerWrapper(api.metrics.Handler())))
	router.Get("/ops/debug/vars", m.ops(GetMemStats))
	router.Get("/ops/debug/gc", m.ops(api.RunGC))
	router.Get("/ops/debug/fos", m.ops(api.FreeOSMemory))

	if api.config.ProfilerEndpointsEnable {
		router.Get("/ops/debug/pprof/", m.ops(api.OpsHandlerWrapper(http.HandlerFunc(pprof.Index))))
		router.Get("/ops/debug/pprof/profile", m.ops(api.GetCPUProfile))
		router.Get("/ops/debug/pprof/trace", m.ops(api.GetTraceProfile))
		router.Get("/ops/debug/pprof/symbol", m.ops(api.GetSymbol))
		router.Get("/ops/debug/pprof/cmdline", m.ops(api.GetCmdLine))
		router.Get("/ops/debug/pprof/heap", m.ops(api.OpsHandlerWrapper(pprof.Handler("heap"))))
		router.Get("/ops/debug/pprof/allocs", m.ops(api.OpsHandlerWrapper(pprof.Handler("allocs"))))
		router.Get("/ops/debug/pprof/goroutine", m.ops(api.OpsHandlerWrapper(pprof.Handler("goroutine"))))
		router.Get("/ops/debug/pprof/threadcreate", m.ops(api.OpsHandlerWrapper(pprof.Handler("threadcreate"))))
		router.Get("/ops/debug/pprof/block", m.ops(api.OpsHandlerWrapper(pprof.Handler("block"))))
		router.Get("/ops/debug/pprof/mutex", m.ops(api.OpsHandlerWrapper(pprof.Handler("mutex"))))
	}

	return router
}
