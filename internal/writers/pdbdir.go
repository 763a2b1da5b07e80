package writers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"heavybuilder/internal/output"
	"heavybuilder/pkg/api"
)

// PDBFileName maps a sequence ID to a safe file name.
func PDBFileName(id string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, id)
	clean = strings.Trim(clean, ".")
	if clean == "" {
		clean = "structure"
	}
	return clean + ".pdb"
}

// WritePDBFile writes s to dir/<id>.pdb and returns the path.
func WritePDBFile(dir string, s api.StructureV1) (path string, err error) {
	path = filepath.Join(dir, PDBFileName(s.SequenceID))
	fh, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := output.WritePDB(fh, s); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
