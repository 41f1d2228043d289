package main

import "log"

// stdLogger adapts the standard library logger to tripshare.Logger.
type stdLogger struct{}

func (stdLogger) Debug(format string, args ...any) { log.Printf("[DBG] "+format, args...) }
func (stdLogger) Info(format string, args ...any)  { log.Printf("[INF] "+format, args...) }
func (stdLogger) Warn(format string, args ...any)  { log.Printf("[WRN] "+format, args...) }
func (stdLogger) Error(format string, args ...any) { log.Printf("[ERR] "+format, args...) }
