package core

import "math/bits"

// MaxComponentTypes is the number of component types that can be registered
// at the same time in one Entities instance.
const MaxComponentTypes = 256

// componentMask is a 256-bit set of ComponentIDs held by one entity.
type componentMask [4]uint64

func (m *componentMask) set(id ComponentID) {
	m[id>>6] |= uint64(1) << (id & 63)
}

func (m *componentMask) unset(id ComponentID) {
	m[id>>6] &^= uint64(1) << (id & 63)
}

func (m componentMask) has(id ComponentID) bool {
	return m[id>>6]&(uint64(1)<<(id&63)) != 0
}

func (m componentMask) empty() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

// first returns the lowest set id; ok is false for an empty mask
func (m componentMask) first() (id ComponentID, ok bool) {
	for i, w := range m {
		if w != 0 {
			return ComponentID(i*64 + bits.TrailingZeros64(w)), true
		}
	}
	return 0, false
}

func (m componentMask) count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}
