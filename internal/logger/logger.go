package logger

import (
	"fmt"
	"io"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-stack/stack"
)

// New builds a leveled logger writing to w. format is "json" or "logfmt";
// lvl is one of debug, info, warn, error, off.
func New(w io.Writer, format, lvl string) log.Logger {
	var logger log.Logger
	logger = withFormat(format, log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", pathCaller(5))
	return withLevel(logger, lvl)
}

func withFormat(format string, w io.Writer) log.Logger {
	switch format {
	case "json":
		return log.NewJSONLogger(w)
	default:
		return log.NewLogfmtLogger(w)
	}
}

func withLevel(logger log.Logger, lvl string) log.Logger {
	switch lvl {
	case "debug":
		return level.NewFilter(logger, level.AllowDebug())
	case "info":
		return level.NewFilter(logger, level.AllowInfo())
	case "warn", "":
		return level.NewFilter(logger, level.AllowWarn())
	case "error":
		return level.NewFilter(logger, level.AllowError())
	case "off":
		return level.NewFilter(logger, level.AllowNone())
	default:
		logger.Log("msg", "unknown log level, using warn", "received", lvl)
		return level.NewFilter(logger, level.AllowWarn())
	}
}

func pathCaller(depth int) log.Valuer {
	return func() interface{} {
		return fmt.Sprintf("%+s", stack.Caller(depth))
	}
}
