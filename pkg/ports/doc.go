/*
Package ports defines the driving and driven ports (interfaces) of the BaZi engine.

These interfaces decouple the pure chart analysis from the adapters that expose it
(HTTP, MCP, CLI) and from the optional history backends (memory, Redis).

# Key Interfaces

  - ReadingEngine: what adapters call to compute, analyze and look up readings.
  - ReadingRecorder: append-only audit trail of computed readings.
*/
package ports
