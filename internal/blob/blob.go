// Package blob abstracts the binary store used for image attachments.
// The core only uploads bytes and gets back a URL; everything else about
// the blob store is an external concern.
package blob

import "context"

// Store is the interface for an image blob backend.
type Store interface {
	// Upload stores data under key and returns a URL the client can fetch
	// the object from.
	Upload(ctx context.Context, key, contentType string, data []byte) (url string, err error)
}
