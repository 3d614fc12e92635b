package reconstruct

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dump is the serialized audit record of one reconstruction run: every
// bank entry and every match, with all fields intact.
type Dump struct {
	Bank    []BankEntry   `json:"bank"`
	Matches []MatchResult `json:"matches"`
}

// WriteDump serializes a bank and its match log as indented JSON.
func WriteDump(w io.Writer, bank []BankEntry, matches []MatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Dump{Bank: bank, Matches: matches}); err != nil {
		return fmt.Errorf("reconstruct: encode dump: %w", err)
	}
	return nil
}

// WriteDumpFile writes the audit dump to path, creating parent
// directories.
func WriteDumpFile(path string, bank []BankEntry, matches []MatchResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("reconstruct: mkdir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("reconstruct: create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDump(f, bank, matches)
}

// ReadDump loads a previously written audit dump.
func ReadDump(r io.Reader) (Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dump{}, fmt.Errorf("reconstruct: decode dump: %w", err)
	}
	return d, nil
}
