package engine

import(
	"context"
	"errors"

	"github.com/abworrall/lutgrade/pkg/grade"
	"github.com/abworrall/lutgrade/pkg/lut"
	"github.com/abworrall/lutgrade/pkg/raster"
)

var(
	ErrInvalidLut           = lut.ErrInvalidLut
	ErrInvalidImage         = raster.ErrInvalidImage
	ErrAllocationFailed     = raster.ErrAllocationFailed
	ErrCancelled            = grade.ErrCancelled
	ErrInitializationFailed = errors.New("initialization failed")
)

// Status is the numeric form of an error, for callers that want codes.
type Status int

const(
	Success Status = iota
	InvalidLut
	InvalidImage
	AllocationFailed
	Cancelled
	InitializationFailed
)

func (s Status)String() string {
	switch s {
	case Success:              return "Success"
	case InvalidLut:           return "InvalidLut"
	case InvalidImage:         return "InvalidImage"
	case AllocationFailed:     return "AllocationFailed"
	case Cancelled:            return "Cancelled"
	case InitializationFailed: return "InitializationFailed"
	default:                   return "Unknown"
	}
}

// StatusOf classifies an error returned by the engine. Errors that don't
// wrap one of the sentinels (e.g. a failed file write) count as
// InvalidImage.
func StatusOf(err error) Status {
	switch {
	case err == nil:                                  return Success
	case errors.Is(err, ErrCancelled):                return Cancelled
	case errors.Is(err, context.Canceled):            return Cancelled
	case errors.Is(err, context.DeadlineExceeded):    return Cancelled
	case errors.Is(err, ErrInvalidLut):               return InvalidLut
	case errors.Is(err, ErrAllocationFailed):         return AllocationFailed
	case errors.Is(err, ErrInitializationFailed):     return InitializationFailed
	default:                                          return InvalidImage
	}
}
