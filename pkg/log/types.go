package log

// Logger is a leveled, structured logger.
// keysAndValues are alternating keys and values, e.g. "primaryType", "Mail".
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// Fatal logs and terminates the process.
	Fatal(msg string, keysAndValues ...any)

	// WithKV returns a logger that adds key and value to every entry.
	WithKV(key string, value any) Logger
	// GetAllKV returns the pairs added with WithKV.
	GetAllKV() []any
	// WithName returns a logger named after a component; names nest with dots.
	WithName(name string) Logger
	Name() string
	// AddCallerSkip skips extra stack frames when reporting the caller, for
	// use inside logging helpers.
	AddCallerSkip(skip int) Logger
}

// Level is the minimum severity a logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)
