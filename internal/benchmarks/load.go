package benchmarks

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a standalone benchmark YAML file. Keys absent from the file
// keep their Default() values. A missing file is an error.
func LoadFile(path string) (Benchmarks, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Benchmarks{}, fmt.Errorf("benchmark file %s does not exist", path)
		}
		return Benchmarks{}, fmt.Errorf("failed to open benchmark file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// Load decodes benchmark YAML from r on top of Default() and validates it.
func Load(r io.Reader) (Benchmarks, error) {
	b := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return Benchmarks{}, fmt.Errorf("failed to parse benchmarks: %w", err)
	}
	b.Normalize()
	if err := b.Validate(); err != nil {
		return Benchmarks{}, err
	}
	return b, nil
}

// WriteYAML serializes the benchmark set, e.g. to seed a custom file.
func (b Benchmarks) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode benchmarks: %w", err)
	}
	return enc.Close()
}
