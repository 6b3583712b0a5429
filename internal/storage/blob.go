// Package storage keeps generated artifacts, currently the research export
// archives, behind a small blob interface so deployments can swap the
// filesystem backend for object storage.
package storage

import "io"

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
