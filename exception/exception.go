package exception

import (
	"os"
	"runtime/debug"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
)

// SafeGo runs fn in a goroutine, logging and counting a panic instead of
// crashing the node
func SafeGo(name string, fn func()) {
	go func() {
		defer recoverAndLog(name, false)
		fn()
	}()
}

// SafeGoWithPanic is SafeGo for workers the node cannot run without
func SafeGoWithPanic(name string, fn func()) {
	go func() {
		defer recoverAndLog(name, true)
		fn()
	}()
}

func recoverAndLog(name string, exit bool) {
	if r := recover(); r != nil {
		monitoring.IncreasePanicCount()
		logx.Error("PANIC", "panic in ", name, ": ", r, "\n", string(debug.Stack()))
		if exit {
			os.Exit(1)
		}
	}
}
