// Package events decouples generation request submission from the task
// machinery that executes it. HTTP services emit TaskRequestEvents;
// registered handlers turn them into running background tasks. Neither
// side imports the other.
package events
