package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File serves random sentences loaded once from a local file.
//
// The format is chosen by extension: .json holds an array of strings,
// .yaml/.yml a sequence of strings, and .txt (or no extension) one sentence
// per line.
type File struct {
	path      string
	sentences []string
	rnd       *rand.Rand
}

// NewFile loads path. A file without any sentence fails with ErrNoContent.
func NewFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var raw []string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("JSON parse error in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("YAML parse error in %s: %w", path, err)
		}
	case ".txt", "":
		raw, err = readLines(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}

	sentences := make([]string, 0, len(raw))
	for _, line := range raw {
		if s := ToASCII(line); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoContent)
	}
	return &File{
		path:      path,
		sentences: sentences,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Path returns the file the sentences came from.
func (f *File) Path() string {
	return f.path
}

// Len returns the number of sentences loaded.
func (f *File) Len() int {
	return len(f.sentences)
}

// Sentence implements Provider.
func (f *File) Sentence(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.sentences[f.rnd.Intn(len(f.sentences))], nil
}

func (f *File) String() string {
	return "file " + f.path
}

func readLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
