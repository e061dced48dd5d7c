package utils

import (
	"io"
	"os"
	"path/filepath"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource reads a source file, or stdin when relPath is "-".
// The returned name is the absolute path, or "<stdin>".
func ReadSource(relPath string, stdin io.Reader) (name string, src string, err error) {
	if relPath == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", err
		}
		return "<stdin>", string(data), nil
	}

	fullPath, _, err := GetPathInfo(relPath)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", "", err
	}
	return fullPath, string(data), nil
}

// OutputPath returns the listing path for a source file: the extension is
// replaced with ".tac", or placed in dir when dir is not empty.
func OutputPath(srcPath, dir string) string {
	base := srcPath
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	base += ".tac"
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	return base
}
