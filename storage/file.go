package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nutriplan"
)

type FileProfileState struct {
	FilePath string
}

func NewFileProfileState(filePath string) *FileProfileState {
	return &FileProfileState{FilePath: filePath}
}

func (p *FileProfileState) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(p.FilePath)
}

// FilePlanStore writes each plan to <dir>/<id>.json.
type FilePlanStore struct {
	Dir string
}

func NewFilePlanStore(dir string) *FilePlanStore {
	return &FilePlanStore{Dir: dir}
}

func (s *FilePlanStore) Save(ctx context.Context, plan *nutriplan.MealPlan) (string, error) {
	name, err := planKey(plan.ID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create plans dir: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan: %w", err)
	}

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write plan: %w", err)
	}
	return path, nil
}

func (s *FilePlanStore) Load(ctx context.Context, id string) (*nutriplan.MealPlan, error) {
	name, err := planKey(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var plan nutriplan.MealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", id, err)
	}
	return &plan, nil
}
