package kv

import "go.etcd.io/bbolt"

// IterMode selects the direction a cursor walks a column.
type IterMode int

const (
	// IterForward walks keys in ascending order.
	IterForward IterMode = iota
	// IterReverse walks keys in descending order.
	IterReverse
)

// Iterator walks a column family's keys in the order fixed by its mode. Call
// Next before the first Key/Value access.
type Iterator struct {
	cursor *bbolt.Cursor
	mode   IterMode
	from   []byte
	start  bool
	key    []byte
	value  []byte
	done   bool
}

func newIterator(cursor *bbolt.Cursor, mode IterMode, from []byte) *Iterator {
	return &Iterator{cursor: cursor, mode: mode, from: from}
}

// Next advances the iterator and reports whether a key/value pair is
// available.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	var k, v []byte
	if !it.start {
		it.start = true
		switch {
		case it.from != nil:
			k, v = it.cursor.Seek(it.from)
			if it.mode == IterReverse && k == nil {
				k, v = it.cursor.Last()
			}
		case it.mode == IterReverse:
			k, v = it.cursor.Last()
		default:
			k, v = it.cursor.First()
		}
	} else if it.mode == IterReverse {
		k, v = it.cursor.Prev()
	} else {
		k, v = it.cursor.Next()
	}

	if k == nil {
		it.done = true
		it.key, it.value = nil, nil
		return false
	}

	it.key = append([]byte(nil), k...)
	it.value = append([]byte(nil), v...)
	return true
}

// Key returns the current key. Valid only after Next returns true.
func (it *Iterator) Key() []byte { return it.key }

// Value returns the current value. Valid only after Next returns true.
func (it *Iterator) Value() []byte { return it.value }
