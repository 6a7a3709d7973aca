// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which reports whether it is enabled
// and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll()
//
// Features such as 'tokens', 'health' and 'stream' are developed and tested in isolation
// and wired together by the start command.
package loader
