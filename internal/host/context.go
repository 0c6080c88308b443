package host

// Context is the per-call state a function can use to memoize derived values
// for one of its arguments. The context owns stored data and calls destroy
// exactly once when the data is replaced or the context ends.
type Context interface {
	AuxData(arg int) any
	SetAuxData(arg int, data any, destroy func(any))
}

type auxSlot struct {
	data    any
	destroy func(any)
}

// Frame is a Context that lives for one evaluation. Close releases every
// slot; data stored after Close is destroyed immediately.
type Frame struct {
	slots  map[int]auxSlot
	closed bool
}

// NewFrame returns an open, empty frame.
func NewFrame() *Frame {
	return &Frame{slots: make(map[int]auxSlot)}
}

// AuxData returns the data stored for arg, or nil.
func (f *Frame) AuxData(arg int) any {
	if f.closed {
		return nil
	}
	return f.slots[arg].data
}

// SetAuxData stores data for arg, destroying any previous occupant.
func (f *Frame) SetAuxData(arg int, data any, destroy func(any)) {
	if f.closed {
		if destroy != nil {
			destroy(data)
		}
		return
	}
	if prev, ok := f.slots[arg]; ok && prev.destroy != nil {
		prev.destroy(prev.data)
	}
	f.slots[arg] = auxSlot{data: data, destroy: destroy}
}

// Len returns the number of occupied slots.
func (f *Frame) Len() int {
	return len(f.slots)
}

// Close destroys all stored data. It is safe to call more than once.
func (f *Frame) Close() {
	if f.closed {
		return
	}
	f.closed = true
	for arg, slot := range f.slots {
		if slot.destroy != nil {
			slot.destroy(slot.data)
		}
		delete(f.slots, arg)
	}
}
