package entangld

import (
	"fmt"

	"github.com/golang/glog"
)

// Logging convention in this package:
// Urgent:
//     logged through glog.Errorf. No call site in this package logs at
//     this level; errors are returned to the caller instead.
// Info:
//     mount/unmount — infrequent, useful for monitoring the shape of the
//     federation over time.
// Debug:
//     per-message trace: every message that crosses receive(), plus
//     dropped sends and recovered callback panics. High volume, off by
//     default.

const LogLevelUrgent = 0
const LogLevelInfo = 50
const LogLevelDebug = 100

var GlobalLogLevel = LogLevelUrgent

// LogFunction is a tagged, level-gated log sink.
type LogFunction func(string, ...any)

func LogFn(level int, tag string) LogFunction {
	return func(format string, a ...any) {
		if GlobalLogLevel < level {
			return
		}
		m := fmt.Sprintf(format, a...)
		if level <= LogLevelUrgent {
			glog.Errorf("%s: %s", tag, m)
		} else {
			glog.Infof("%s: %s", tag, m)
		}
	}
}

func SubLogFn(level int, log LogFunction, tag string) LogFunction {
	return func(format string, a ...any) {
		if GlobalLogLevel < level {
			return
		}
		m := fmt.Sprintf(format, a...)
		log("%s: %s", tag, m)
	}
}

var storeLog = LogFn(LogLevelInfo, "store")
var traceLog = LogFn(LogLevelDebug, "store")

// mountLog and receiveLog are sub-tagged off storeLog/traceLog, so a
// mount/unmount or a per-message trace line carries both the package
// tag and the narrower one identifying which subsystem logged it.
var mountLog = SubLogFn(LogLevelInfo, storeLog, "mount")
var receiveLog = SubLogFn(LogLevelDebug, traceLog, "receive")
