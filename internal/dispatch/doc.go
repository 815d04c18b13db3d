// Package dispatch runs jobs on a bounded in-memory queue drained by a pool
// of worker goroutines. AsyncEmitter builds on it to deliver events outside
// the request that produced them.
package dispatch
