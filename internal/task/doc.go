// Package task implements background content generation: the worker
// pool that runs generation jobs, the chapter pool shared by document
// tasks, and the two-tier progress tracker that callers poll for
// status.
package task
