// Package model provides the data structures shared across the pipeline
// packages. It defines the step descriptors, the step actions and statuses,
// and the option interface pipeline extensions implement.
package model
