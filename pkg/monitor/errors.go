package monitor

import "errors"

var (
	// ErrAlreadyRunning is returned when Start is called on a running engine.
	ErrAlreadyRunning = errors.New("monitor already running")

	// ErrUnknownItem is returned by control operations naming an item that
	// is not in the monitored set.
	ErrUnknownItem = errors.New("unknown monitored item")

	// ErrNoItems is returned when the item source yields an empty set.
	ErrNoItems = errors.New("no monitored items configured")

	// ErrAlertDeliveryFailed means every attempted alert channel failed.
	ErrAlertDeliveryFailed = errors.New("all alert deliveries failed")
)
