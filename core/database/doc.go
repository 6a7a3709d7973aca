// Package database handles the optional MySQL connection used by the curated
// metadata source.
//
// It wraps GORM to configure the connection pool and DSN timeouts from the
// application's configuration. The service runs without it: when the connection
// fails the curated source is simply not registered.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Curated source disabled", zap.Error(err))
//	}
package database
