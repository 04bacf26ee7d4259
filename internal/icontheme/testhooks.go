package icontheme

// ResetDefaultForTests discards the process-wide database so the next
// Configure and Default calls start over. The returned func does the same
// and is meant for t.Cleanup.
func ResetDefaultForTests() func() {
	resetDefault()
	return resetDefault
}
