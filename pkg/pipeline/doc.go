// Package pipeline provides a sequential runner for provisioning pipelines.
//
// A pipeline is a fixed, ordered sequence of named steps executed against a
// fresh, ephemeral environment. Each step either installs a tool, extends
// the environment's command search path, or runs an external command. Steps
// execute strictly in declaration order; no step begins before every prior
// step has succeeded.
//
// The pipeline stops on the first encountered failure: a step whose command
// exits with a non-zero status aborts the remainder of the run, and the run
// is reported failed with the identity of the failing step. There are no
// retries, no parallelism and no rollback.
package pipeline
