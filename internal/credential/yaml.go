package credential

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where WriteConfig writes when no path is given.
const DefaultConfigPath = "./dumped_yml"

// configFileMode is the mode of newly written documents. Overwriting keeps the
// existing file's mode.
const configFileMode os.FileMode = 0o644

// yamlIndent is the mapping indentation of written documents.
const yamlIndent = 2

// WriteConfig writes data as a YAML document to path (DefaultConfigPath when
// empty). The document is written to a temporary file next to path and
// renamed into place, so a failed write never leaves a truncated file.
func WriteConfig(data any, path string) error {
	if path == "" {
		path = DefaultConfigPath
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

// ReadConfig reads a YAML document into a generic mapping. An empty document
// yields a nil map.
func ReadConfig(path string) (map[string]any, error) {
	var out map[string]any
	if err := ReadConfigInto(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadConfigInto decodes a YAML document into out.
func ReadConfigInto(path string, out any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	mode := configFileMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
