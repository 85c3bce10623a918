// Package predict is the core, indexing trained words under every keypad prefix and ranking them by frequency.
package predict

// ISearcher is what the presenters and the IPC server need from an index.
type ISearcher interface {
	// Search returns ranked exact and prefix candidates for a digit string
	Search(numstring string) (Result, bool)

	// Stats returns statistics about the trained index
	Stats() map[string]int
}

var _ ISearcher = (*Predictor)(nil)
