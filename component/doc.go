// Package component defines lifecycle-managed parts of a running speechkit
// process (telemetry exporters, the HTTP task host) and a registry that
// starts them in order, stops them in reverse and aggregates their health.
package component
