// Package domain contains the core business entities, value objects, and
// domain logic of the task management system: tasks, task lists, users, the
// task status state machine, and completion aggregation. It is independent of
// any specific infrastructure or delivery mechanism.
package domain
