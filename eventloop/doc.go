// Package eventloop is a bounded, growable worker pool that runs submitted
// tasks off the caller's goroutine.
//
// Workers are started on demand up to MaxWorkers and exit after IdleTimeout
// without work. Submit never blocks: a full queue is reported as a
// QUEUE_FULL error. A panicking task is recovered and logged; the worker
// keeps running.
//
// Shutdown cancels the context handed to every task, lets workers drain the
// queue (tasks observe the cancelled context and finish fast) and waits for
// them to exit.
package eventloop
