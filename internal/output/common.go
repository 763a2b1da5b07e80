package output

// Output formats understood by the writers. Keep these as the single source
// of truth; the CLI and config validation use them.
const (
	FormatPDB   = "pdb"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Formats lists every supported format.
var Formats = []string{FormatPDB, FormatJSON, FormatJSONL}

// ValidFormat reports whether f is one of Formats.
func ValidFormat(f string) bool {
	for _, x := range Formats {
		if x == f {
			return true
		}
	}
	return false
}
