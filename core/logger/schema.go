package logger

import "strings"

const (
	// LevelDebug represents the debug severity level name.
	LevelDebug = "DEBUG"
	// LevelInfo represents the info severity level name.
	LevelInfo = "INFO"
	// LevelWarn represents the warning severity level name.
	LevelWarn = "WARN"
	// LevelError represents the error severity level name.
	LevelError = "ERROR"
)

var allowedLevels = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var allowedStatus = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"skip":         {},
	"retry":        {},
	"rate_limited": {},
	"cancelled":    {},
	"denied":       {},
}

var allowedOutcome = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"cancelled":    {},
	"completed":    {},
	"rate_limited": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	_, ok := allowedStatus[status]
	return status, ok
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	_, ok := allowedOutcome[outcome]
	return outcome, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"cb_key",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"state",
	"from_state",
	"to_state",
	"lang",
	"username",
	"payload",
	"records",
	"path",
	"mode",
	"listen",
	"public_url",
	"db",
	"host",
	"port",
	"err",
	"err_code",
	"cause",
	"attempts",
}
