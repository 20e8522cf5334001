// Package daemon tracks a background review server through a small state
// file holding its PID and listen address.
package daemon

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Record describes a running server.
type Record struct {
	PID       int       `yaml:"pid"`
	Addr      string    `yaml:"addr"`
	Provider  string    `yaml:"provider,omitempty"`
	Model     string    `yaml:"model,omitempty"`
	StartedAt time.Time `yaml:"started_at"`
}

// URL returns the base URL clients should use to reach the server.
func (r Record) URL() string {
	return "http://localhost" + r.Addr
}

// PIDFile manages the state file for a background server.
type PIDFile struct {
	Path string
}

// NewPIDFile creates a PIDFile manager for the given path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{Path: path}
}

// Write records the current process as the running server.
func (p *PIDFile) Write(rec Record) error {
	if rec.PID == 0 {
		rec.PID = os.Getpid()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode PID file: %w", err)
	}
	return os.WriteFile(p.Path, data, 0o644)
}

// Read loads the record from the file.
func (p *PIDFile) Read() (Record, error) {
	var rec Record
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return rec, err
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("invalid PID file content: %w", err)
	}
	if rec.PID <= 0 {
		return rec, fmt.Errorf("invalid PID file content: pid %d", rec.PID)
	}
	return rec, nil
}

// Remove deletes the PID file.
func (p *PIDFile) Remove() error {
	return os.Remove(p.Path)
}
