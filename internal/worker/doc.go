// Package worker holds the unit of work the blob trigger delegates to once a
// new object has been received.
package worker
