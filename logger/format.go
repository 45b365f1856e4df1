package logger

import "fmt"

// FormatLogger adapts a Logger for libraries that log with printf-style calls.
type FormatLogger struct {
	logger    Logger
	component string
}

func NewFormatLogger(logger Logger, component string) *FormatLogger {
	return &FormatLogger{logger: logger, component: component}
}

func (l *FormatLogger) Infof(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", l.component)
}

func (l *FormatLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", l.component)
}
