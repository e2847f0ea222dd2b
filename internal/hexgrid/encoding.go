package hexgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// MarshalText encodes a hex as "q,r" so Hex can key JSON maps in persisted
// match state.
func (h Hex) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R)), nil
}

// UnmarshalText parses the "q,r" form produced by MarshalText.
func (h *Hex) UnmarshalText(b []byte) error {
	parts := strings.SplitN(string(b), ",", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid hex key %q", string(b))
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("invalid hex key %q: %w", string(b), err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("invalid hex key %q: %w", string(b), err)
	}
	h.Q, h.R = q, r
	return nil
}
