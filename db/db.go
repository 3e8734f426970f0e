// Package db provides the MongoDB storage of the user credit records.
package db

import "time"

// defaultTimeout bounds the maintenance operations that are not attached to a
// request context.
const defaultTimeout = 10 * time.Second
