// Package keymap maps host keyboard keys onto the 16 key hex keypad.
//
// The keypad is laid out as
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// and is conventionally placed on the left block of a QWERTY keyboard:
//
//	1 2 3 4
//	Q W E R
//	A S D F
//	Z X C V
package keymap

import "unicode"

// Layout lists the host keys in keypad row order.
const Layout = "1234QWERASDFZXCV"

// keypad holds the keypad index for each position of Layout.
var keypad = [16]int{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

// Index returns the keypad index for a host key. Letters match in either case.
func Index(r rune) (int, bool) {
	r = unicode.ToUpper(r)
	for i, k := range Layout {
		if k == r {
			return keypad[i], true
		}
	}
	return 0, false
}

// Rune returns the host key bound to a keypad index, or 0 if index is out
// of range.
func Rune(index int) rune {
	for i, k := range keypad {
		if k == index {
			return rune(Layout[i])
		}
	}
	return 0
}
