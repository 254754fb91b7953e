// Package server provides the MCP server context, health checks, and the
// dedicated metrics endpoint for the lucident application.
//
// # Key Components
//
// ServerContext wires the calendar provider and availability service
// together and hands them to tools with lazy, cached per-account Google
// API clients underneath. It supports multiple accounts through the
// google.TokenProvider abstraction:
//   - FileTokenProvider: reads tokens from disk (STDIO and local HTTP use)
//   - custom providers: secret stores in hosted deployments
//
// HealthChecker exposes /healthz and /readyz endpoints for Kubernetes
// probes. MetricsServer serves Prometheus metrics on a separate port so
// operational data never shares a listener with MCP traffic.
package server
