package bundler

import "sync"

type tap[F any] struct {
	name string
	fn   F
}

// SyncHook is an ordered list of observers for one event. Taps are additive:
// registering a tap never removes or short-circuits another one.
type SyncHook[T any] struct {
	mu   sync.RWMutex
	taps []tap[func(T)]
}

// Tap registers fn under name. Taps run in registration order.
func (h *SyncHook[T]) Tap(name string, fn func(T)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap[func(T)]{name: name, fn: fn})
}

// Call invokes every tap with arg.
func (h *SyncHook[T]) Call(arg T) {
	for _, t := range h.snapshot() {
		t.fn(arg)
	}
}

// Taps returns the registered tap names in order.
func (h *SyncHook[T]) Taps() []string {
	return tapNames(h.snapshot())
}

func (h *SyncHook[T]) snapshot() []tap[func(T)] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]tap[func(T)](nil), h.taps...)
}

// PatchFunc observes a pending context resolution and returns the changes it
// wants the host to apply. The zero Patch means "leave it alone".
type PatchFunc func(req ContextRequest) Patch

// PatchHook is the beforeResolve event. Unlike SyncHook, each tap returns a
// Patch instead of mutating the request.
type PatchHook struct {
	mu   sync.RWMutex
	taps []tap[PatchFunc]
}

// Tap registers fn under name. Taps run in registration order.
func (h *PatchHook) Tap(name string, fn PatchFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap[PatchFunc]{name: name, fn: fn})
}

// Call hands req to every tap and collects the non-empty patches in tap order.
// Each tap receives its own copy of the request.
func (h *PatchHook) Call(req ContextRequest) []Patch {
	h.mu.RLock()
	taps := append([]tap[PatchFunc](nil), h.taps...)
	h.mu.RUnlock()

	var patches []Patch
	for _, t := range taps {
		p := t.fn(req.clone())
		if p.IsZero() {
			continue
		}
		patches = append(patches, p)
	}
	return patches
}

// Taps returns the registered tap names in order.
func (h *PatchHook) Taps() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return tapNames(h.taps)
}

func tapNames[F any](taps []tap[F]) []string {
	names := make([]string, 0, len(taps))
	for _, t := range taps {
		names = append(names, t.name)
	}
	return names
}
