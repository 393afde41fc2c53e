package util

import (
	"syscall"
	"time"
)

// TimeFromTimeval creates a Time structure from syscall.Timeval
func TimeFromTimeval(val syscall.Timeval) time.Time { // xx:inline
	s, ns := val.Unix()
	return time.Unix(s, ns)
}
