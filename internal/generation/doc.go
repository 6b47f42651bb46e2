// Package generation turns language model completions into domain
// objects. It defines the writer interfaces used by services and
// background tasks, serving as the boundary between the application
// core and the model provider.
package generation
