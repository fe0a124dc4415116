package linkframe

type callbackEntry[T any] struct {
	id uint32
	fn func(T)
}

// callbackRegistry is an ordered list of callbacks addressable by id.
type callbackRegistry[T any] struct {
	entries []callbackEntry[T]
	nextID  uint32
}

func (r *callbackRegistry[T]) add(fn func(T)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, callbackEntry[T]{id: id, fn: fn})
	return CallbackHandle{id: id, remove: r.remove}
}

// remove drops the entry from the slice rather than nil-ing it so dispatch
// never iterates dead entries.
func (r *callbackRegistry[T]) remove(id uint32) {
	for i := range r.entries {
		if r.entries[i].id == id {
			copy(r.entries[i:], r.entries[i+1:])
			r.entries[len(r.entries)-1] = callbackEntry[T]{}
			r.entries = r.entries[:len(r.entries)-1]
			return
		}
	}
}

// snapshot returns a copy so callbacks may add or remove entries while a
// dispatch is in progress.
func (r *callbackRegistry[T]) snapshot() []callbackEntry[T] {
	if len(r.entries) == 0 {
		return nil
	}
	out := make([]callbackEntry[T], len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *callbackRegistry[T]) count() int {
	return len(r.entries)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id     uint32
	remove func(uint32)
}

// Remove unregisters the callback so it no longer fires. Removing twice is a
// no-op.
func (h CallbackHandle) Remove() {
	if h.remove == nil {
		return
	}
	h.remove(h.id)
}
