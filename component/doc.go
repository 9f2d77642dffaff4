// Package component defines lifecycle-managed pieces of a running binary
// and a registry that starts them in order, stops them in reverse, and
// aggregates their health.
package component
