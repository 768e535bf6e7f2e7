package ir

const (
	// MemoryVersion is the layout version of persisted store entries.
	MemoryVersion = "1"

	// EngineVersion is the closet render engine version.
	EngineVersion = "0.1.0"
)
