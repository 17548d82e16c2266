// Package status holds the shared lifecycle status values stored on
// documents across collections.
package status

const (
	Active    = "active"
	Disabled  = "disabled"
	Completed = "completed"
)
