// Package store defines the repository interfaces for tasks, task lists and
// users, the filter and pagination types they accept, the errors they return,
// and transaction helpers. Implementations live in internal/platform.
package store
