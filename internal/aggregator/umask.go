package aggregator

import "syscall"

// UmaskController swaps the process umask and reports the previous value so
// callers can scope an override around a subprocess invocation.
type UmaskController interface {
	Swap(mask int) int
}

// SystemUmaskController manipulates the real process umask.
type SystemUmaskController struct{}

// NewSystemUmaskController constructs a controller backed by the umask syscall.
func NewSystemUmaskController() *SystemUmaskController {
	return &SystemUmaskController{}
}

// Swap installs the supplied umask and returns the previously active one.
func (*SystemUmaskController) Swap(mask int) int {
	return syscall.Umask(mask)
}
