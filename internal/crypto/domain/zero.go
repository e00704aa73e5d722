package domain

// Zero wipes a byte slice in place so key material does not linger in
// memory after use. Ranging over a nil slice is a no-op.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
