// Package events carries study activity from the services to observers
// such as metrics, without the services knowing who listens.
//
// The primary components are:
// - Event: something that happened during a study session
// - EventHandler: interface for components that react to events
// - EventEmitter: interface for components that publish events
package events
