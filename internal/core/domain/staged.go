package domain

// StagedEntry is the single shared library staged for one architecture.
type StagedEntry struct {
	Target     Target
	Path       string
	OutputHash string
}

// StagedLayout is the per-ABI directory tree the package builder consumes.
type StagedLayout struct {
	Root    string
	Library string
	Entries map[Architecture]StagedEntry
}

// NewStagedLayout creates an empty layout rooted at root.
func NewStagedLayout(root, library string) *StagedLayout {
	return &StagedLayout{
		Root:    root,
		Library: library,
		Entries: make(map[Architecture]StagedEntry),
	}
}

// Missing returns the architectures of targets that have no entry, in target order.
func (l *StagedLayout) Missing(targets []Target) []Architecture {
	var missing []Architecture
	for _, t := range targets {
		if _, ok := l.Entries[t.Arch]; !ok {
			missing = append(missing, t.Arch)
		}
	}
	return missing
}
