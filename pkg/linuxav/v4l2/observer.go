package v4l2

import "fmt"

// Observer receives a notification for every control call a Device makes.
// Implementations must be cheap; they run inline with the ioctl loop.
type Observer interface {
	// Control is called once per completed call; err is nil on success.
	Control(request string, err error)
	// Retry is called each time a call is interrupted by a signal.
	Retry(request string)
	// Drop is called for an enumerated entry with no discrete representation.
	Drop(request string, index uint32, detail string)
}

type nopObserver struct{}

func (nopObserver) Control(string, error) {}
func (nopObserver) Retry(string) {}
func (nopObserver) Drop(string, uint32, string) {}

// RequestError reports a control call that failed for a reason other than
// the end of an enumeration.
type RequestError struct {
	Request string
	Index   int // -1 for requests that are not indexed
	Err     error
}

func (e *RequestError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Request, e.Err)
	}
	return fmt.Sprintf("%s index %d: %v", e.Request, e.Index, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
