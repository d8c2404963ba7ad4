// Package profiles loads named web service connection profiles from YAML or JSON files.
package profiles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/netapp-lib/webservice-go/pkg/webservice"
)

const defaultScheme = "https"

// configFile represents the structure of the profiles file.
type configFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Port accepts both numeric and string ports in profile files.
type Port string

// UnmarshalJSON decodes a port given as a JSON number or string.
func (p *Port) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Port(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("port must be a number or string: %w", err)
	}
	*p = Port(n.String())
	return nil
}

// Profile is a single connection entry declared in a profiles file.
type Profile struct {
	ID          string            `json:"id" yaml:"id"`
	Scheme      string            `json:"scheme" yaml:"scheme"`
	Host        string            `json:"host" yaml:"host"`
	Port        Port              `json:"port" yaml:"port"`
	ServicePath string            `json:"service_path" yaml:"service_path"`
	Username    string            `json:"username" yaml:"username"`
	Password    string            `json:"password" yaml:"password"`
	Evaluator   string            `json:"evaluator" yaml:"evaluator"`
	Headers     map[string]string `json:"headers" yaml:"headers"`
	Options     map[string]any    `json:"options" yaml:"options"`
}

// ClientConfig converts the profile into webservice connection parameters.
func (p Profile) ClientConfig() webservice.Config {
	return webservice.Config{
		Scheme:      p.Scheme,
		Host:        p.Host,
		Port:        string(p.Port),
		ServicePath: p.ServicePath,
		Username:    p.Username,
		Password:    p.Password,
		Extra:       p.Options,
	}
}

// Registry materializes profile definitions loaded from config files.
type Registry struct {
	mu       sync.RWMutex
	profiles []Profile
	idx      map[string]Profile
}

// LoadRegistry loads the profile registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	return parseRegistry(raw, filepath.Ext(path))
}

func parseRegistry(raw []byte, ext string) (*Registry, error) {
	fileReg, err := parseProfileFile(raw, ext)
	if err != nil {
		return nil, err
	}
	if len(fileReg.Profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	reg := &Registry{
		profiles: make([]Profile, len(fileReg.Profiles)),
		idx:      make(map[string]Profile, len(fileReg.Profiles)),
	}

	for i := range fileReg.Profiles {
		p := sanitizeProfile(fileReg.Profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.profiles[i] = p
		reg.idx[p.ID] = p
	}

	return reg, nil
}

// parseProfileFile attempts to decode the profiles file content.
func parseProfileFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("profiles file format not recognized (expected YAML or JSON)")
}

// sanitizeProfile trims and normalizes the profile fields.
func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Scheme = strings.ToLower(strings.TrimSpace(p.Scheme))
	if p.Scheme == "" {
		p.Scheme = defaultScheme
	}
	p.Host = strings.TrimSpace(p.Host)
	p.Port = Port(strings.TrimSpace(string(p.Port)))
	p.ServicePath = strings.TrimSpace(p.ServicePath)
	p.Evaluator = strings.ToLower(strings.TrimSpace(p.Evaluator))
	p.Headers = sanitizeHeaders(p.Headers)
	return p
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateProfile checks that the id is present. Connection parameters are
// validated by webservice.New so both paths report the same errors.
func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// ByID returns the profile by id.
func (r *Registry) ByID(id string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns all configured profiles.
func (r *Registry) All() []Profile {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}
