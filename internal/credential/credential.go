// Package credential reads INI credential files, anonymizes their values and
// round-trips them through YAML config documents.
package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/ini.v1"

	"catalog-kit/internal/domain"
)

// DefaultFileName is the conventional name of an anonymized credential dump.
const DefaultFileName = "credentials_anon"

// Record is a flat option -> value mapping from one credential profile.
type Record map[string]string

// loadOptions keep values verbatim: "#" and ";" inside a value, surrounding
// quotes and trailing backslashes are part of the value. Indented lines
// continue the previous value.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	PreserveSurroundedQuote:    true,
	IgnoreContinuation:         true,
	AllowPythonMultilineValues: true,
}

// Read parses an INI file and returns the options of its first section,
// whatever that section is called. Later sections are ignored. Option names
// are lowercased; values are kept as raw strings. Options of the unnamed
// default section are inherited, and the section's own options win.
func Read(path string) (Record, error) {
	cfg, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("load credential file %s: %w", path, err)
	}

	var profile *ini.Section
	for _, s := range cfg.Sections() {
		if s.Name() != ini.DefaultSection {
			profile = s
			break
		}
	}
	if profile == nil {
		return nil, domain.ErrValidation("credential file %s has no sections", path)
	}

	rec := Record{}
	for _, k := range cfg.Section(ini.DefaultSection).Keys() {
		rec[k.Name()] = k.Value()
	}
	for _, k := range profile.Keys() {
		rec[k.Name()] = k.Value()
	}
	return rec, nil
}

// Anonymize replaces every value with the hex SHA-256 digest of the value.
// Keys are kept. The result is deterministic and cannot be reversed.
func Anonymize(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		sum := sha256.Sum256([]byte(v))
		out[k] = hex.EncodeToString(sum[:])
	}
	return out
}

// Convert reads the credential file at src and writes its first profile to
// dst as YAML, hashing the values first when anonymize is set. It returns the
// record that was written.
func Convert(src, dst string, anonymize bool) (Record, error) {
	rec, err := Read(src)
	if err != nil {
		return nil, err
	}
	if anonymize {
		rec = Anonymize(rec)
	}
	if err := WriteConfig(rec, dst); err != nil {
		return nil, err
	}
	return rec, nil
}
