package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

// EnvVar names the environment variable holding the log file path.
const EnvVar = "DOCSTUB_LOG_FILE"

var (
	mu  sync.Mutex
	now = time.Now
)

// Log is a minimal printf-style logger. It appends one line per call to the file specified by the DOCSTUB_LOG_FILE environment variable, prefixed with a UTC
// timestamp. Multi-line messages are written as-is after the prefix.
//
// If DOCSTUB_LOG_FILE is unset/empty or the path can't be opened as a file, Log is a no-op.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	// Serialize open/write/close to reduce interleaving within a single process.
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	b.WriteString(now().UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}

// Enabled reports whether Log currently writes anywhere. Callers can use it to skip building expensive log arguments.
func Enabled() bool {
	return os.Getenv(EnvVar) != ""
}
