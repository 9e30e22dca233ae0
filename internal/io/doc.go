// Package ioutils provides file system utilities for vocal-isolator.
//
// This package contains functions for:
//   - Checking the per-member training directory exists
//   - Listing eligible songs (audio extension, no exclusion marker)
//   - Idempotent output directory creation
//   - Advisory locking of an output directory
//   - Atomic replacement of a finished output file
package ioutils
