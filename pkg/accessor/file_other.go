//go:build !windows && !darwin

package accessor

import "github.com/carverauto/configwatch/pkg/logger"

// New returns the flat-file accessor on platforms without a native
// configuration store.
func New(stateFile string, _ logger.Logger) (*File, error) {
	return NewFile(stateFile), nil
}
