// Package mocks provides shared test doubles for the store, auth and
// notification interfaces.
//
// The store mocks are in-memory implementations rather than call recorders:
// they assign IDs, enforce the unique constraints of the Postgres schema and
// return results ordered by ID. NewMockStores links them so task list
// deletion cascades and user deletion clears assignments. Each store counts
// calls per method, which lets tests assert that no query ran.
//
//	tasks, lists, users := mocks.NewMockStores()
//	notifier := new(mocks.MockNotifier)
//	notifier.On("NotifyAssignment", mock.Anything, mock.Anything, mock.Anything).Return(true)
package mocks
