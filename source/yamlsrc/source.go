package yamlsrc

import (
	"os"
	"path/filepath"

	"github.com/reoring/jsonschema/jsonvalue"
)

// DirSource implements jsonschema.Source by reading "<Dir>/<relativePath>.yaml"
// (falling back to ".yml") and decoding it into an ordered jsonvalue.Node,
// the YAML counterpart to a plain filesystem JSON Source.
type DirSource struct {
	Dir string
}

func (d DirSource) Load(relativePath string) (*jsonvalue.Node, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(d.Dir, relativePath+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return decode(data)
	}
	return nil, &os.PathError{Op: "open", Path: filepath.Join(d.Dir, relativePath+".yaml"), Err: os.ErrNotExist}
}

// BytesSource serves a single in-memory YAML document regardless of the
// requested relative path, for embedding one schema without a filesystem.
type BytesSource []byte

func (b BytesSource) Load(relativePath string) (*jsonvalue.Node, error) { return decode(b) }

func decode(data []byte) (*jsonvalue.Node, error) {
	ts, err := NewBytes(data)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Decode(jsonvalue.FromEngine(ts, jsonvalue.NumberJSONNumber))
}
