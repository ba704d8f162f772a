package vip

// Keypad is the 16-key hex keypad. Held state serves the skip-on-key
// instructions; presses are additionally latched in arrival order for
// the key-wait instruction, so a tap is not lost if it is released
// before the machine asks for it.
type Keypad struct {
	down    [16]bool
	pending []byte
}

// Press records key (0-15) going down. Auto-repeat presses of a held
// key are ignored.
func (k *Keypad) Press(key byte) {
	key &= 0xf
	if k.down[key] {
		return
	}
	k.down[key] = true
	if len(k.pending) >= maxPending {
		k.pending = k.pending[1:]
	}
	k.pending = append(k.pending, key)
}

// maxPending bounds the press backlog so a program that never reads
// the keypad does not accumulate presses forever.
const maxPending = 16

// Release records key (0-15) coming back up.
func (k *Keypad) Release(key byte) {
	k.down[key&0xf] = false
}

// Down reports whether key is held.
func (k *Keypad) Down(key byte) bool {
	return k.down[key&0xf]
}

// Pending consumes and returns the oldest unconsumed press, if any.
func (k *Keypad) Pending() (byte, bool) {
	if len(k.pending) == 0 {
		return 0, false
	}
	key := k.pending[0]
	k.pending = k.pending[1:]
	return key, true
}
