// Package document loads pre-tokenized templates from YAML.
//
// A document names its session and lists the tag occurrences in document
// order. Tokenizing the template text happens outside closet; the document
// is the tokenizer's output:
//
//	session: deck-1
//	occurrences:
//	  - key: mix
//	    qualifier: "1"
//	    count: 2
//	    values: [a, b]
//	events:
//	  - [10, null]
//	  - [-30, {kind: cloze}]
//
// Occurrence indices default to the position among occurrences sharing the
// same qualified key. Events feed the region keeper: a non-negative offset
// opens a region, a negative one closes it and carries the payload.
package document
