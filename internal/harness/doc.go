// Package harness runs YAML conformance scenarios against the history store.
//
// Each scenario executes a list of steps against a fresh in-memory store
// with a deterministic clock, then compares the final ListAll output with
// the expected records and, optionally, a golden snapshot.
//
// # Scenario Format
//
//	name: sticky_provenance
//	description: "Provenance survives a save without source info"
//	steps:
//	  - save: { address: A, balance: 10, timestamp: 1, source_info: { chain: X } }
//	  - save: { address: A, balance: 20, timestamp: 2 }
//	  - delete: B
//	  - clear: true
//	expect:
//	  - address: A
//	    balance: 20
//	    formatted_balance: "20 DOGE"
//	    timestamp: 2
//	    source_info: { chain: X }
//
// A save without timestamp uses the harness clock, which starts at
// StartMillis and advances one second after every step. Balances written as
// YAML numbers are numeric; quoted balances are strings.
//
// Golden snapshots live in testdata/golden/{name}.golden. To regenerate:
//
//	go test ./internal/harness -update
package harness
