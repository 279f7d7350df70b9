package guests

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"wedding-site/internal/models"
)

// ErrSourceAbsent reports that a source has nothing configured.
var ErrSourceAbsent = errors.New("guest source not configured")

// Source yields one candidate guest mapping.
type Source interface {
	Name() string
	Load() (map[string]models.GuestRecord, error)
}

// EnvSource reads a JSON object from an environment variable.
type EnvSource struct {
	Var    string
	Lookup func(string) (string, bool)
}

// NewEnvSource reads from the process environment.
func NewEnvSource(name string) EnvSource {
	return EnvSource{Var: name, Lookup: os.LookupEnv}
}

func (s EnvSource) Name() string { return "env:" + s.Var }

func (s EnvSource) Load() (map[string]models.GuestRecord, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	raw, ok := lookup(s.Var)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ErrSourceAbsent
	}
	return decode([]byte(raw))
}

// FileSource reads a JSON file supplied at runtime.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load() (map[string]models.GuestRecord, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, ErrSourceAbsent
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSourceAbsent
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return decode(data)
}

//go:embed data/guests.json
var bundled []byte

// StaticSource is the mapping compiled into the binary. Distributed builds
// ship an empty object; private builds replace data/guests.json.
type StaticSource struct {
	Data []byte
}

// NewStaticSource returns the bundled mapping.
func NewStaticSource() StaticSource {
	return StaticSource{Data: bundled}
}

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Load() (map[string]models.GuestRecord, error) {
	if len(s.Data) == 0 {
		return nil, ErrSourceAbsent
	}
	return decode(s.Data)
}

func decode(data []byte) (map[string]models.GuestRecord, error) {
	var out map[string]models.GuestRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guest list: %w", err)
	}
	return out, nil
}
