package model

// Capabilities records which external dependencies came up at startup.
// Computed once and passed to every component that needs it; dependent
// operations degrade to "no result" when a flag is false.
type Capabilities struct {
	Generation bool // text generation service reachable
	Embedding  bool // embedding model usable
	Store      bool // vector store connected
}

// CanRetrieve reports whether similarity retrieval is possible
func (c Capabilities) CanRetrieve() bool {
	return c.Embedding && c.Store
}

// CanGenerate reports whether generation calls may be dispatched
func (c Capabilities) CanGenerate() bool {
	return c.Generation
}
