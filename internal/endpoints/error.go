package endpoints

import (
	"errors"
)

const (
	API_SUCCESS      = iota + 303000 // 303000
	API_FAILURE                      // 303001 - Generic API failure
	API_UNAUTHORIZED                 // 303002 - Authentication/Authorization failure
)

const (
	COLLECTION_DEGRADED = iota + 101 // 101 - Some sources or the store failed, partial results available
	COLLECTION_FAILED                // 102 - Every source failed and nothing was saved
	REQUEST_CANCELLED                // 103 - Request was cancelled by client or server timeout
)

var (
	ErrCollectionDegraded = errors.New("collection completed with errors")
	ErrCollectionFailed   = errors.New("collection failed: no source reachable and nothing saved")
	ErrRequestCancelled   = errors.New("request cancelled by client or server timeout")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, ErrCollectionDegraded):
		return COLLECTION_DEGRADED
	case errors.Is(err, ErrCollectionFailed):
		return COLLECTION_FAILED
	case errors.Is(err, ErrRequestCancelled):
		return REQUEST_CANCELLED
	default:
		return API_FAILURE // Default for any unhandled error
	}
}
