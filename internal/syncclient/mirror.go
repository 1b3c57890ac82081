package syncclient

import (
	"encoding/json"
	"log"
	"os"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// Snapshot is the serialized form of the local mirror: one keyed blob
// holding both collections.
type Snapshot struct {
	Tasks  []models.Task  `json:"tasks"`
	Events []models.Event `json:"events"`
}

// Mirror persists the model's collections across reloads. Corrupt content
// is silently discarded and write failures are logged but never block
// in-memory operation.
type Mirror struct {
	path   string
	logger *log.Logger
}

func NewMirror(path string, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(os.Stderr, "[mirror] ", log.LstdFlags)
	}
	return &Mirror{path: path, logger: logger}
}

func (m *Mirror) Load() Snapshot {
	var snap Snapshot

	raw, err := os.ReadFile(m.path)
	if err != nil {
		return snap
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		m.logger.Printf("discarding corrupt mirror path=%s err=%v", m.path, err)
		return Snapshot{}
	}

	return snap
}

func (m *Mirror) Save(snap Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		m.logger.Printf("encode mirror err=%v", err)
		return
	}

	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		m.logger.Printf("write mirror path=%s err=%v", m.path, err)
	}
}
