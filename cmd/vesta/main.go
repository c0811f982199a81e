// Tessera Vesta is a policy learning and shadow enforcement runtime
// for automated trading pipelines.
//
// It observes historical outcomes, proposes mitigating policies
// (position caps, sizing biases, banned patterns), deterministically
// compiles them into a versioned, auditable learning state, and
// evaluates that state against freshly proposed orders without
// enforcing anything.
//
// Usage:
//
//	# Run observers over a context snapshot and persist candidates
//	vesta observe --context snapshot.json
//
//	# Compile the recent candidate window into a new learning state
//	vesta compile --lookback 7
//
//	# Inspect the current state and its history
//	vesta state show
//	vesta state history
//
//	# Print the advisory gate context
//	vesta gate
//
//	# Shadow-evaluate proposed orders against the current state
//	vesta shadow --orders orders.json --run-id run-42
//
//	# Query shadow reports
//	vesta report --run-id run-42
//
//	# Watch a context directory and run the learning loop on change
//	vesta watch --context-dir ./snapshots
package main

func main() {
	Execute()
}
