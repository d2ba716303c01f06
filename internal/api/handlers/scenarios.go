package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"convert-capacity/internal/api/models"
	"convert-capacity/internal/config"
	"convert-capacity/internal/logger"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler lists ladder presets from a directory of YAML files.
type ScenarioHandler struct {
	dir string
	log *logger.Logger
}

// NewScenarioHandler creates a scenario handler. Relative directories are
// resolved against the working directory.
func NewScenarioHandler(dir string, log *logger.Logger) *ScenarioHandler {
	if log == nil {
		log = logger.Nop()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Infof("using scenario directory: %s", dir)
	return &ScenarioHandler{dir: dir, log: log}
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	scenarios := []models.ScenarioInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.log.WithError(err).Warnf("failed to read scenario directory %s", h.dir)
		c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(h.dir, name)
		info, err := loadScenarioInfo(path, name)
		if err != nil {
			h.log.WithError(err).Warnf("skipping scenario file %s", path)
			continue
		}
		scenarios = append(scenarios, *info)
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

func loadScenarioInfo(path, filename string) (*models.ScenarioInfo, error) {
	l, err := config.LoadLaddersFile(path)
	if err != nil {
		return nil, err
	}
	p, err := l.Params()
	if err != nil {
		return nil, err
	}

	// "fine_ladder.yaml" -> "fine_ladder"
	id := strings.TrimSuffix(strings.TrimSuffix(filename, ".yaml"), ".yml")
	name := l.Name
	if name == "" {
		name = id
	}
	return &models.ScenarioInfo{
		ID:          id,
		Name:        name,
		Description: l.Description,
		File:        path,
		Divisors:    len(p.Divisors),
		Deltas:      len(p.Deltas),
	}, nil
}
