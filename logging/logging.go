package logging

import "go.uber.org/zap"

// GetSugaredLogger returns the shared sugared logger used across the
// service. Callers should defer Sync.
func GetSugaredLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("cannot initialize zap")
	}
	sl := logger.Sugar()

	return sl
}
