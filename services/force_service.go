package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maldun/UltraMekCore/metrics"
	"github.com/maldun/UltraMekCore/models"
	"github.com/maldun/UltraMekCore/parsers"
)

// EntityDataKey holds the resolved unit record inside each force entity
const EntityDataKey = "entity_data"

// ForceService turns force files into scenario records with unit data attached
type ForceService struct {
	units   *UnitService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewForceService creates a force service resolving units through units
func NewForceService(units *UnitService, m *metrics.Metrics, logger *slog.Logger) *ForceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForceService{
		units:   units,
		metrics: m,
		logger:  logger.With("component", "force_service"),
	}
}

// ProcessForces parses a .mul document and attaches the resolved unit
// record of every entity under EntityDataKey. Any unresolvable entity fails
// the whole force.
func (fs *ForceService) ProcessForces(text string) (*models.Record, error) {
	start := time.Now()
	scenario, err := parsers.ParseMUL(text)
	fs.metrics.ObserveParse(models.FormatMUL, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	forces := scenario.Record()
	entities := forces.Record("entities")
	for _, id := range scenario.IDs() {
		entity, _ := scenario.Entity(id)
		unit, err := fs.units.GetUnit(entity)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", id, err)
		}
		entities.Record(id).Set(EntityDataKey, unit)
	}

	fs.logger.Debug("forces processed", "entities", len(scenario.Entities))
	return forces, nil
}
