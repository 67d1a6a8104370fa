// Package pipeline implements the data processing orchestrator.
//
// Run executes the sum step on the calling goroutine, then starts two
// background units (metrics calculation and input validation). Every step
// catches its own failure, including panics, and reports it with a stack
// trace; a failure never reaches the caller or a sibling unit.
//
// By default Run joins the background units before returning. In detached
// mode it returns as soon as they are started, and a process that exits right
// away can lose their output. Wait exists for callers that need to drain
// detached units afterwards.
package pipeline
