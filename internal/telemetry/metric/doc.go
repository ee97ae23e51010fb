// Package metric sets up the Prometheus registry shared by kvfile-server
// components and exposes it over HTTP.
//
// Components register their own collectors on the registry returned by
// NewRegistry: the store registers dump counters and histograms, the line
// server its command counters. Handler serves the registry at /metrics.
package metric
