// Package repository holds the MySQL-backed bid log.  Sentinel errors here
// let handlers tell a missing record from a storage failure.
package repository

import "errors"

// ErrNotFound is returned when a bid log entry does not exist.  The bid
// handler answers it with 404.
var ErrNotFound = errors.New("not found")
