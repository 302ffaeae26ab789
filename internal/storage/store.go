// Package storage persists finished runs: one directory per run holding
// metadata and a final particle snapshot.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/flockgrid/internal/boids"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Strategy  string             `json:"strategy"`
	Particles int                `json:"particles"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Seed      int64              `json:"seed"`
	ElapsedMS float64            `json:"elapsed_ms"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ParticleRecord is one row of the particle snapshot csv.
type ParticleRecord struct {
	Slot int     `csv:"slot"`
	X    float32 `csv:"x"`
	Y    float32 `csv:"y"`
	Z    float32 `csv:"z"`
	VX   float32 `csv:"vx"`
	VY   float32 `csv:"vy"`
	VZ   float32 `csv:"vz"`
}

// Save writes metadata and the flock's final state under a fresh run
// directory and returns the run ID.
func (s *Store) Save(meta RunMetadata, flock *boids.Simulation) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Strategy, time.Now().UnixNano())
	meta.ID = runID
	meta.Timestamp = time.Now()

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	pos := flock.Positions()
	vel := flock.Velocities()
	records := make([]*ParticleRecord, len(pos))
	for i := range pos {
		records[i] = &ParticleRecord{
			Slot: i,
			X:    pos[i].X, Y: pos[i].Y, Z: pos[i].Z,
			VX: vel[i].X, VY: vel[i].Y, VZ: vel[i].Z,
		}
	}

	f, err := os.Create(filepath.Join(runDir, "particles.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := gocsv.Marshal(&records, f); err != nil {
		return "", fmt.Errorf("storage: write particle snapshot: %w", err)
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// LoadMetadata reads one run's metadata.
func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadParticles reads one run's particle snapshot.
func (s *Store) LoadParticles(runID string) ([]*ParticleRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "particles.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*ParticleRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("storage: parse particle snapshot for %s: %w", runID, err)
	}
	return records, nil
}

// List returns metadata for every stored run, newest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}
