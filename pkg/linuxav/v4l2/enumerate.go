//go:build linux

package v4l2

import "unsafe"

// enumerate issues e.req for index 0, 1, 2, ... until the driver fails.
//
// Entries that convert reports as not representable are skipped without
// stopping the loop. Once the loop has stopped, EINVAL means the index ran
// past the last entry and the collected records are returned. Any other
// failure invalidates the whole enumeration and no records are returned.
func enumerate[A, T any](d *Device, e enumeration[A, T]) ([]T, error) {
	results := make([]T, 0)

	var (
		index uint32
		err   error
	)
	for ; ; index++ {
		var arg A
		e.init(&arg, index)
		if err = d.control(e.req, unsafe.Pointer(&arg)); err != nil {
			break
		}
		rec, ok := e.convert(&arg)
		if !ok {
			d.observer.Drop(e.req.name, index, e.describe(&arg))
			continue
		}
		results = append(results, rec)
	}

	if !endOfEnumeration(err) {
		return nil, &RequestError{Request: e.req.name, Index: int(index), Err: err}
	}
	return results, nil
}
