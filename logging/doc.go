// Package logging provides a minimal logging interface and adapters for
// sessionbag.
//
// The Logger interface defines the levelled methods (Debug, Info, Warn, Error)
// taking a message plus slog-style key/value pairs. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping go.uber.org/zap, with optional rotating file output
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger, err := logging.NewZapLogger(logging.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer logger.Sync()
//	store := session.NewInMemoryStore(func(o *session.Options) { o.Logger = logger })
package logging
