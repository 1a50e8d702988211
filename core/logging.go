package core

import "log"

// Printf logs an informational message.
func Printf(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

// Warningf logs a warning message.
func Warningf(format string, args ...any) {
	log.Printf("[WARN] "+format, args...)
}

// Errorf logs an error. It accepts either an error value or a format string
// followed by arguments so call sites can pass whichever they have on hand.
func Errorf(v any, args ...any) {
	switch t := v.(type) {
	case error:
		log.Printf("[ERROR] %s", t.Error())
	case string:
		log.Printf("[ERROR] "+t, args...)
	default:
		log.Printf("[ERROR] %v", t)
	}
}
