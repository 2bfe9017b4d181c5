package port

// FileWalker lists files under a directory that match its patterns.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	Name    string
	ModTime int64
	Size    int64
}
