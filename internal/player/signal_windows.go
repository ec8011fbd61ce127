//go:build windows

package player

import (
	"errors"
	"os"
)

var errNoSuspend = errors.New("pausing is not supported on windows")

func suspend(*os.Process) error { return errNoSuspend }
func resume(*os.Process) error  { return errNoSuspend }
