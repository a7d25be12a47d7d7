package relclass

// Every returns a function that reports whether a 1-based batch index is a multiple of frequency.
// The driver uses it to space out status updates.
func Every(frequency int) func(int) bool {
	return func(iteration int) bool {
		return iteration%frequency == 0
	}
}
