// Package notification delivers task assignment and status emails.
//
// The Notifier builds an email for each change and emits it as an event.
// Handlers registered on the emitter do the delivery: MockEmailHandler logs
// the message and the rabbitmq publisher, when configured, forwards it to the
// broker. Delivery failures are reported as false and never as errors.
package notification
