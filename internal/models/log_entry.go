package models

// LogLevel is the severity of a collected log entry.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
	LogLevelError   LogLevel = "Error"
)

// LogEntry is one collected log line. Consecutive identical entries
// (same message, level and call site) are folded into a single entry
// with RepeatCount incremented, which bounds growth under log storms.
type LogEntry struct {
	Message     string   `json:"message"`
	StackTrace  string   `json:"stackTrace,omitempty"`
	Level       LogLevel `json:"level"`
	CallSite    string   `json:"callSite"`
	TimestampMs int64    `json:"timestamp"`
	RepeatCount int      `json:"repeatCount"` // >= 1
}

// SameSource reports whether another entry would be folded into this one.
func (e *LogEntry) SameSource(other *LogEntry) bool {
	return e.Message == other.Message &&
		e.Level == other.Level &&
		e.CallSite == other.CallSite
}
