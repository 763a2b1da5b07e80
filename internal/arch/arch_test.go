// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		// The predictor core is a library: nothing from the CLI side.
		"heavybuilder/core/": {
			"heavybuilder/internal/", "heavybuilder/cmd/",
		},
		"heavybuilder/internal/pipeline": {
			"heavybuilder/internal/appcore", "heavybuilder/internal/app",
			"heavybuilder/internal/writers", "heavybuilder/internal/output",
			"heavybuilder/cmd/",
		},
		"heavybuilder/internal/writers": {
			"heavybuilder/internal/appcore", "heavybuilder/internal/app",
			"heavybuilder/internal/pipeline", "heavybuilder/cmd/",
		},
		"heavybuilder/internal/output": {
			"heavybuilder/internal/appcore", "heavybuilder/internal/app",
			"heavybuilder/internal/pipeline", "heavybuilder/internal/writers",
			"heavybuilder/cmd/",
		},
		"heavybuilder/pkg/api": {
			"heavybuilder/internal/", "heavybuilder/core/", "heavybuilder/cmd/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "heavybuilder/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "heavybuilder/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
