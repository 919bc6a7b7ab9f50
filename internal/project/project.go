// Package project persists a parsed model together with its tree state as a
// JSON project file, so a filtering session can be saved and resumed without
// re-parsing the source L5K file.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/l5ktune/l5ktune/internal/model"
	"github.com/l5ktune/l5ktune/internal/treestate"
)

// ErrVersion means the project file was written by an incompatible version.
var ErrVersion = errors.New("unsupported project file version")

// FormatVersion is bumped whenever the file layout changes incompatibly.
const FormatVersion = 1

// File is the on-disk layout of a saved project.
type File struct {
	Version   int                       `json:"version"`
	ProjectID string                    `json:"project_id"`
	Source    string                    `json:"source,omitempty"`
	SavedAt   time.Time                 `json:"saved_at"`
	Model     *model.Project            `json:"model"`
	States    []treestate.SnapshotEntry `json:"states"`
}

// New wraps a model and its state for saving. Source is the path of the L5K
// file the model was parsed from, kept for display only.
func New(source string, p *model.Project, st *treestate.State) *File {
	return &File{
		Version:   FormatVersion,
		ProjectID: uuid.NewString(),
		Source:    source,
		Model:     p,
		States:    st.Snapshot(),
	}
}

// Save writes the project file as indented JSON.
func (f *File) Save(path string) error {
	f.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create project dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads a project file and rebuilds its tree state from the stored
// snapshot.
func Load(path string) (*File, *treestate.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read project: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("decode project: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, f.Version, FormatVersion)
	}
	if f.Model == nil {
		return nil, nil, fmt.Errorf("decode project: missing model")
	}
	st := treestate.FromProject(f.Model)
	st.Restore(f.States)
	return &f, st, nil
}
