package sessions

// Classify partitions records into active sessions and passthrough blocks,
// keeping the original relative order of each. Passthrough covers completed
// sessions and blocks without an agent.
func Classify(records []Record) (active, passthrough []Record) {
	for _, r := range records {
		if r.IsActive() {
			active = append(active, r)
		} else {
			passthrough = append(passthrough, r)
		}
	}
	return active, passthrough
}
