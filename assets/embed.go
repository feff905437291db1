// assets/embed.go
//
// Files compiled into the server binary:
//   - migrations/*.sql: schema, applied in lexical order at startup.
//   - samples/*.json: one sample document per activity type, named after
//     the type (see content.Type.String), seeded into an empty database.

package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql samples/*.json
var FS embed.FS

// MigrationsDir is the directory inside FS holding the schema scripts.
const MigrationsDir = "migrations"

// Sample is one embedded sample document.
type Sample struct {
	Name string // file stem, e.g. "memory_pair"
	Body []byte
}

// Samples returns every embedded sample, sorted by name.
func Samples() ([]Sample, error) {
	entries, err := fs.ReadDir(FS, "samples")
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		body, err := FS.ReadFile(path.Join("samples", e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, Sample{Name: strings.TrimSuffix(e.Name(), ".json"), Body: body})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
