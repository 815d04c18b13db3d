// Package events provides an in-process publish/subscribe mechanism.
//
// Services emit Events through an EventEmitter without knowing which handlers
// consume them. The notification package registers its email and broker
// handlers here.
package events
