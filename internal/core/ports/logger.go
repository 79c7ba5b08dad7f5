package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// SetJSON switches between JSON and human readable output.
	SetJSON(enable bool)
	// SetVerbose enables debug messages.
	SetVerbose(enable bool)
}
