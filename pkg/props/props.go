package props

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	DefaultPath = "local.properties"
	DefaultKey  = "OPENAI_API_KEY"
)

const scanBufSize = 1024 * 1024

// Properties holds the entries of a key=value file. Path is the file the
// entries were read from, if any, and is only used in error messages.
type Properties struct {
	Path    string
	Entries map[string]string
}

type ConfigUnreadableError struct {
	Path string
	Err  error
}

func (e *ConfigUnreadableError) Error() string {
	return fmt.Sprintf("unable to read %s: %s", e.Path, e.Err)
}

func (e *ConfigUnreadableError) Unwrap() error {
	return e.Err
}

type CredentialMissingError struct {
	Key  string
	Path string
}

func (e *CredentialMissingError) Error() string {
	return fmt.Sprintf("%s missing in %s", e.Key, e.Path)
}

// Load reads the properties file at path. The file is closed before Load
// returns.
func Load(path string) (*Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigUnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, &ConfigUnreadableError{Path: path, Err: err}
	}

	p.Path = path

	return p, nil
}

// Parse reads key=value lines from r. Blank lines, lines starting with '#'
// and lines without '=' are skipped. A key that appears more than once keeps
// its last value.
func Parse(r io.Reader) (*Properties, error) {
	p := &Properties{Entries: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		p.Entries[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.Entries[key]
	return v, ok
}

// Credential returns the value of key, or a CredentialMissingError if the key
// is absent or empty.
func (p *Properties) Credential(key string) (string, error) {
	if v, _ := p.Get(key); v != "" {
		return v, nil
	}

	path := p.Path
	if path == "" {
		path = DefaultPath
	}

	return "", &CredentialMissingError{Key: key, Path: path}
}
