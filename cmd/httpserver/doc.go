// Package main (cmd/httpserver) runs the interface registry server.
//
// The server keeps one registry over the configured storage, registers the
// self-identifying interface on first start and serves the registry API,
// health endpoints and Prometheus metrics.
//
// # Storage
//
// Pass one or more --storage URIs. A single URI selects that backend; several
// URIs form a multi-backend that writes to all of them and reads from the
// first available one:
//
//	registry-server --storage bolt:///var/lib/registry/interfaces.db \
//	    --storage "s3://bucket/registry/?region=eu-west-1"
//
// State in persistent backends survives restarts.
//
// # Configuration
//
// Every flag can also be set through a REGISTRY_ environment variable, for
// example REGISTRY_LISTEN_ADDR, REGISTRY_STORAGE (comma separated) and
// REGISTRY_LOG_JSON.
//
//	--listen-addr     API address (default 127.0.0.1:8080)
//	--metrics-addr    Prometheus address (default 127.0.0.1:8090)
//	--drain-seconds   seconds to stay unready before shutdown (default 45)
//	--pprof           mount /debug/pprof
//	--log-json, --log-debug, --log-uid, --log-service
package main
