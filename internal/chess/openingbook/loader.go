package openingbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/park285/cheese-engine/internal/chess/movegen"
	"github.com/park285/cheese-engine/internal/chess/position"
	"gopkg.in/yaml.v3"
)

type yamlMove struct {
	Move   string `yaml:"move"`
	Weight int    `yaml:"weight"`
}

type yamlPosition struct {
	FEN     string     `yaml:"fen"`
	Opening string     `yaml:"opening,omitempty"`
	Moves   []yamlMove `yaml:"moves"`
}

type yamlBook struct {
	Positions []yamlPosition `yaml:"positions"`
}

// ParseYAML decodes a book document into raw entries:
//
//	positions:
//	  - fen: startpos
//	    opening: King's Pawn
//	    moves:
//	      - {move: e2e4, weight: 60}
//	      - {move: d2d4, weight: 40}
//
// "startpos" (or an empty fen) denotes the initial position.
func ParseYAML(r io.Reader) ([]Entry, error) {
	var doc yamlBook
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode book yaml: %w", err)
	}

	var entries []Entry
	for i, p := range doc.Positions {
		pos, err := parseBookFEN(p.FEN)
		if err != nil {
			return nil, fmt.Errorf("book position %d: %w", i, err)
		}
		for _, ym := range p.Moves {
			m, err := movegen.FindMove(pos, ym.Move)
			if err != nil {
				return nil, fmt.Errorf("book position %d: %w", i, err)
			}
			entries = append(entries, Entry{
				Position: pos,
				Move:     m,
				Weight:   ym.Weight,
				Opening:  strings.TrimSpace(p.Opening),
			})
		}
	}
	return entries, nil
}

// LoadYAML parses a YAML book and builds it.
func LoadYAML(r io.Reader, opts ...Option) (*Book, error) {
	entries, err := ParseYAML(r)
	if err != nil {
		return nil, err
	}
	return New(entries, opts...)
}

// LoadFromPath opens a book file and builds it. See ReadEntries for the
// accepted formats.
func LoadFromPath(bookPath string, maxPly int, opts ...Option) (*Book, error) {
	entries, err := ReadEntries(bookPath, ImportOptions{MaxPly: maxPly})
	if err != nil {
		return nil, err
	}
	return New(entries, opts...)
}

// ReadEntries reads a book file, choosing the format by extension: ".bin" is
// read as a polyglot book with imp, anything else as YAML.
func ReadEntries(bookPath string, imp ImportOptions) ([]Entry, error) {
	if strings.TrimSpace(bookPath) == "" {
		return nil, fmt.Errorf("book path required")
	}
	file, err := os.Open(bookPath)
	if err != nil {
		return nil, fmt.Errorf("open book %q: %w", bookPath, err)
	}
	defer file.Close()

	var entries []Entry
	if strings.EqualFold(filepath.Ext(bookPath), ".bin") {
		entries, err = ImportPolyglot(file, imp)
	} else {
		entries, err = ParseYAML(file)
	}
	if err != nil {
		return nil, fmt.Errorf("load book %q: %w", bookPath, err)
	}
	return entries, nil
}

func parseBookFEN(fen string) (position.Position, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		return position.StartPosition(), nil
	}
	return position.ParseFEN(fen)
}

// ResolveBookPath returns the book to load: CHEESE_BOOK_PATH if set (it must
// exist), otherwise the first default location that exists, otherwise "".
func ResolveBookPath() (string, error) {
	if envPath := strings.TrimSpace(os.Getenv("CHEESE_BOOK_PATH")); envPath != "" {
		if exists(envPath) {
			return envPath, nil
		}
		return "", fmt.Errorf("env CHEESE_BOOK_PATH points to missing file: %s", envPath)
	}

	for _, candidate := range defaultBookPaths() {
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func defaultBookPaths() []string {
	return []string{
		filepath.Join("resources", "opening", "book.yaml"),
		filepath.Join("resources", "opening", "book.bin"),
	}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
