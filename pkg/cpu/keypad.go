package cpu

import "fmt"

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

func checkKey(index int) error {
	if index < 0 || index >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKeyIndex, index)
	}
	return nil
}

// SetKeyDown marks key index (0-15) as pressed.
func (c *CPU) SetKeyDown(index int) error {
	if err := checkKey(index); err != nil {
		return err
	}
	c.mu.Lock()
	c.keys[index] = true
	c.mu.Unlock()
	return nil
}

// SetKeyUp marks key index (0-15) as released.
func (c *CPU) SetKeyUp(index int) error {
	if err := checkKey(index); err != nil {
		return err
	}
	c.mu.Lock()
	c.keys[index] = false
	c.mu.Unlock()
	return nil
}

// IsKeyDown reports whether key index is currently pressed. Out of range
// indexes are never pressed.
func (c *CPU) IsKeyDown(index int) bool {
	if checkKey(index) != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys[index]
}
