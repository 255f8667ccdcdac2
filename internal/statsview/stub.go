//go:build !statsview

package statsview

import "io"

// DefaultAddress is used when Launch is given an empty address.
const DefaultAddress = "localhost:12800"

// Launch does nothing without the statsview build tag.
func Launch(string, io.Writer) {}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
