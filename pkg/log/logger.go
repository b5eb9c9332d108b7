package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

// Level selects how verbose the loggers are.
type Level int

// Levels accepted by SetLevel, from most to least verbose.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// backendLevels maps each Level onto go-logging's scale.
var backendLevels = [...]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

// Lines read "14:03:07.512 NOTI scene     | built default: 5 primitives".
var lineFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} %{module:-9s}%{color:reset} | %{message}`,
)

// sink is the shared output every named logger writes through.
var sink struct {
	sync.Mutex
	level   Level
	backend logging.LeveledBackend
}

// Logger is the leveled logger used by every package of the path tracer.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for a component; name fills the module column.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink sends the output of all loggers to w, keeping the current level.
func SetSink(w io.Writer) {
	sink.Lock()
	defer sink.Unlock()

	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), lineFormat)
	sink.backend = logging.AddModuleLevel(formatted)
	sink.backend.SetLevel(backendLevels[sink.level], "")
	logging.SetBackend(sink.backend)
}

// SetLevel sets the verbosity of all loggers. Levels above Error are
// treated as Error.
func SetLevel(level Level) {
	sink.Lock()
	defer sink.Unlock()

	sink.level = min(max(level, Debug), Error)
	sink.backend.SetLevel(backendLevels[sink.level], "")
}

func init() {
	sink.level = Notice
	SetSink(os.Stdout)
}
