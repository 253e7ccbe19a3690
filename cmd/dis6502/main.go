package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof" // profiling

	"dis6502/internal/dis6502/cmd"
	"dis6502/internal/dis6502/log"
)

const defaultProfileAddr = "localhost:6060"

// profileAddr maps DIS6502_PROFILE to a pprof listen address. Empty
// disables profiling; a host:port value is used as is.
func profileAddr(v string) string {
	switch {
	case v == "":
		return ""
	case strings.Contains(v, ":"):
		return v
	default:
		return defaultProfileAddr
	}
}

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	if addr := profileAddr(os.Getenv("DIS6502_PROFILE")); addr != "" {
		go func() {
			slog.Info("Serving pprof", "addr", addr)
			if httpErr := http.ListenAndServe(addr, nil); httpErr != nil {
				slog.Error("Failed to pprof listen", "error", httpErr)
			}
		}()
	}

	cmd.Execute()
}
