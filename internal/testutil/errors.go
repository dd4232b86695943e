// Package testutil provides testing utilities for forge-testwrap.
//
// It contains mock errors and helpers that write fake test executables and a
// fake valgrind as shell scripts. It should only be imported by test files
// (*_test.go), and the script helpers need a POSIX sh.
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockLaunch simulates a process that could not be started.
	ErrMockLaunch = errors.New("exec: no such file or directory")

	// ErrMockDisk simulates a failing filesystem.
	ErrMockDisk = errors.New("disk failure")
)
