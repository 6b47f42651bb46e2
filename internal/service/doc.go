// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, repositories
// (defined in internal/store), the generation writers, and the background
// task machinery to fulfill application features.
//
// Services receive their dependencies through constructor injection and
// never depend on specific infrastructure implementations. Expected error
// conditions surface as sentinel errors that callers check with errors.Is;
// the API layer maps them onto HTTP status codes.
package service
