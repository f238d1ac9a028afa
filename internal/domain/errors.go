package domain

import "errors"

var (
	ErrSnapshotNotFound = errors.New("rate snapshot not found")
	ErrUpstreamRejected = errors.New("rate source rejected the request")
)
