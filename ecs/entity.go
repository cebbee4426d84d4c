package ecs

import "strconv"

// Handle identifies one slot in a component store. The upper 32 bits hold the
// slot generation, the lower 32 bits the slot index. The zero Handle is never
// issued.
type Handle uint64

type slotIndex uint32
type generation uint32

const slotIndexBits = 32

func makeHandle(idx slotIndex, gen generation) Handle {
	return Handle(uint64(gen)<<slotIndexBits | uint64(idx))
}

func (h Handle) index() slotIndex {
	return slotIndex(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> slotIndexBits))
}

// Index returns the slot index the handle points at.
func (h Handle) Index() int {
	return int(h.index())
}

// Generation returns the generation tag of the handle.
func (h Handle) Generation() uint32 {
	return uint32(h.generation())
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.index()), 10) + "v" + strconv.FormatUint(uint64(h.generation()), 10)
}

// Valid reports whether the handle could have been issued by an allocator.
// It says nothing about liveness.
func (h Handle) Valid() bool {
	return h.generation() > 0
}
