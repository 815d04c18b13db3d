// Package service contains the application use cases. It orchestrates
// domain entities and the repository interfaces from internal/store.
//
// TaskService applies lifecycle operations to a single task inside a
// transaction and sends notifications only after the change is persisted.
// TaskQueryService lists and searches tasks and computes completion figures
// over a whole task list. TaskListService and UserService manage the other
// two entities.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage implementation. Expected conditions are
// returned as the store and domain sentinel errors; anything else is wrapped
// in a *ServiceError.
package service
