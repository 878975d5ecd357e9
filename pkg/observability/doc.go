/*
Package observability provides Prometheus instrumentation for the BaZi engine.

Metrics plugs into the engine through domain.LifecycleHooks, so every computed
or rejected reading is counted regardless of the surface (CLI, HTTP, MCP) that
produced it. Middleware adds per-route HTTP request counters for chi routers.
*/
package observability
