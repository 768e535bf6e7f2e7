// Package harness runs closet render scenarios as conformance tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: coordinated_mix
//	description: "Three occurrences share one pool"
//	seed: 7
//	session: deck
//	renders: 2
//	separator: "|"
//	document_file: ../documents/deck.yaml   # or an inline document:
//	document:
//	  occurrences:
//	    - {key: mix, qualifier: "1", count: 2, values: [a, b]}
//	assertions:
//	  - {type: pass_count, expect: 4}
//	  - {type: output_count, occurrence: 0, expect: 2}
//	  - {type: output_multiset, key: mix1, values: [a, b]}
//	  - {type: pool_drained, key: mix1}
//	  - {type: memory_length, key: mix1, expect: 2}
//	  - {type: outputs_stable}
//
// # Assertion Types
//
//   - pass_count: a render took exactly N passes
//   - output_count: an occurrence's output holds exactly N values
//   - output_multiset: the outputs of a key hold exactly the given values, in any order
//   - pool_drained: nothing is left in a key's pool after the last render
//   - memory_length: the persistent sort keys of a key have length N
//   - outputs_stable: every render produced the same outputs
//
// Assertions that take a render index default to the last render.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a seeded
// randomness source and a fixed session name. Golden traces hold only the
// pass structure (phases, statuses, deferred callbacks), never output text,
// so they do not depend on the randomness source.
package harness
