package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"gopkg.in/natefinch/lumberjack.v2"

	contextPkg "CommandCore/pkg/context"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

type Fields = logrus.Fields

// Options controls where and how much the process logger writes.
type Options struct {
	Level  string
	Dir    string
	Env    string
	Stderr io.Writer
}

func OptionsFromEnv() Options {
	return Options{
		Level: os.Getenv("LOG_LEVEL"),
		Dir:   os.Getenv("LOG_DIR"),
		Env:   os.Getenv("APP_ENV"),
	}
}

// NewLogger returns the process logger, building it from the environment on first use.
func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = Build(OptionsFromEnv())
	})
	return logger
}

// Build creates a logger without touching the process logger. Outside APP_ENV=test it
// also writes to a daily file rotated by lumberjack.
func Build(opts Options) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&formatter.Formatter{
		NoColors:        opts.Env == "production",
		TimestampFormat: "02 Jan 06 - 15:04:05",
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, s[len(s)-1])
		},
	})

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	writers := []io.Writer{stderr}

	if opts.Env != "test" {
		dir := opts.Dir
		if dir == "" {
			dir = filepath.Join(".", "storage", "logs")
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(dir, fmt.Sprintf("commandcore-%s.log", time.Now().Format("2006-01-02"))),
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(true)
	return l
}

func get() *logrus.Logger {
	if logger == nil {
		return NewLogger()
	}
	return logger
}

func Debug(fields Fields, msg string) {
	get().WithFields(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	get().WithFields(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	get().WithFields(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	get().WithFields(fields).Error(msg)
}

// TraceID is the ID a user can quote for an error: the request ID when fields carry one,
// otherwise a fresh UUID.
func TraceID(fields Fields) string {
	if traceID, _ := fields["request_id"].(string); traceID != "" && traceID != "unknown" {
		return traceID
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

func ErrorWithTraceID(fields Fields, msg string) string {
	if fields == nil {
		fields = Fields{}
	}

	traceID := TraceID(fields)
	fields["trace_id"] = traceID
	get().WithFields(fields).Error(msg)

	return traceID
}

func WithRequestID(ctx context.Context) *logrus.Entry {
	return get().WithField("request_id", contextPkg.GetRequestID(ctx))
}
