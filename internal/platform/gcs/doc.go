// Package gcs opens Cloud Storage objects as byte streams for the blob trigger.
package gcs
