// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: tags every incoming request with a request id (RayID), stored in the
//     context and echoed in the X-Ray-ID response header for tracing.
//
// Middleware is registered globally in the start command, ahead of the request logger.
package middleware
