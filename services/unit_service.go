package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/maldun/UltraMekCore/metrics"
	"github.com/maldun/UltraMekCore/models"
	"github.com/maldun/UltraMekCore/parsers"
	"github.com/maldun/UltraMekCore/persistence"
)

// ErrUnitNotFound matches every *UnitNotFoundError
var ErrUnitNotFound = errors.New("unit not found")

// ErrUnknownCategory is returned for entity types without a unit category
var ErrUnknownCategory = errors.New("unknown unit category")

// Entity movement types and the unit category their files are filed under
var typeCategories = map[string]string{
	"biped":   "mechs",
	"tracked": "vehicles",
}

// Lookup sources reported to metrics
const (
	sourceCustom  = "custom"
	sourceStore   = "store"
	sourceArchive = "archive"
	sourceMiss    = "miss"
)

// UnitNotFoundError reports a unit no source could provide
type UnitNotFoundError struct {
	Name       string
	Category   string
	Suggestion string
}

func (e *UnitNotFoundError) Error() string {
	msg := fmt.Sprintf("unit %q not found", e.Name)
	if e.Category != "" {
		msg += " in " + e.Category
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is makes errors.Is(err, ErrUnitNotFound) hold
func (e *UnitNotFoundError) Is(target error) bool {
	return target == ErrUnitNotFound
}

// UnitService resolves force entities to decoded unit records. Sources are
// tried in order: the custom unit directory, the store, and the category
// zip archives.
type UnitService struct {
	customDir  string
	archiveDir string
	db         persistence.Storage
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewUnitService creates a unit service. db and m may be nil.
func NewUnitService(customDir, archiveDir string, db persistence.Storage, m *metrics.Metrics, logger *slog.Logger) *UnitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitService{
		customDir:  customDir,
		archiveDir: archiveDir,
		db:         db,
		metrics:    m,
		logger:     logger.With("component", "unit_service"),
	}
}

// Category maps an entity's movement type to its unit category
func Category(entity *models.Entity) (string, error) {
	category, ok := typeCategories[strings.ToLower(entity.Type())]
	if !ok {
		return "", fmt.Errorf("%w: type %q", ErrUnknownCategory, entity.Type())
	}
	return category, nil
}

// UnitName derives the display name of a decoded unit record: chassis (or
// name, for pseudo-markup files) and model joined by a space.
func UnitName(unit *models.Record) string {
	base := fieldText(unit, "chassis")
	if base == "" {
		base = fieldText(unit, "name")
	}
	return models.DisplayName(base, fieldText(unit, "model"))
}

func fieldText(rec *models.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	if _, isList := v.([]any); isList {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseUnitFile decodes a .mtf or .blk unit file
func (us *UnitService) ParseUnitFile(filePath string) (*models.Record, error) {
	format, ok := parsers.FormatForPath(filePath)
	if !ok || (format != models.FormatMTF && format != models.FormatBLK) {
		return nil, &parsers.ParseError{Format: format, Field: filePath, Kind: parsers.ErrUnknownFormat}
	}

	start := time.Now()
	unit, err := parsers.ParseFile(filePath)
	us.metrics.ObserveParse(format, time.Since(start), err)
	return unit, err
}

// GetUnit resolves an entity to its unit record
func (us *UnitService) GetUnit(entity *models.Entity) (*models.Record, error) {
	name := entity.Name()

	unit, err := us.customUnit(name)
	if err != nil {
		return nil, err
	}
	if unit != nil {
		us.metrics.RecordUnitLookup(sourceCustom)
		return unit, nil
	}

	category, err := Category(entity)
	if err != nil {
		us.metrics.RecordUnitLookup(sourceMiss)
		return nil, fmt.Errorf("unit %q: %w", name, err)
	}

	if us.db != nil {
		unit, err := us.db.LoadUnit(category, name)
		if err == nil {
			us.metrics.RecordUnitLookup(sourceStore)
			return unit, nil
		}
		if !errors.Is(err, persistence.ErrNotFound) {
			return nil, fmt.Errorf("failed to load unit %q: %w", name, err)
		}
	}

	unit, err = us.archiveUnit(category, name)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		us.metrics.RecordUnitLookup(sourceMiss)
		return nil, &UnitNotFoundError{
			Name:       name,
			Category:   category,
			Suggestion: suggest(name, us.knownNames(category)),
		}
	}
	us.metrics.RecordUnitLookup(sourceArchive)

	if us.db != nil {
		if err := us.db.SaveUnit(category, name, unit); err != nil {
			us.logger.Warn("failed to store unit", "unit", name, "category", category, "error", err)
		}
	}
	return unit, nil
}

// customUnit parses the custom file whose base name matches name, if any
func (us *UnitService) customUnit(name string) (*models.Record, error) {
	if us.customDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(us.customDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read custom unit dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || unitBaseName(entry.Name()) != name {
			continue
		}
		if _, ok := unitFormat(entry.Name()); !ok {
			continue
		}
		us.logger.Debug("custom unit found", "unit", name, "file", entry.Name())
		return us.ParseUnitFile(filepath.Join(us.customDir, entry.Name()))
	}
	return nil, nil
}

func (us *UnitService) archivePath(category string) string {
	return filepath.Join(us.archiveDir, category+".zip")
}

// archiveUnit parses the unit file named name from the category archive.
// A missing archive is treated as a miss.
func (us *UnitService) archiveUnit(category, name string) (*models.Record, error) {
	if us.archiveDir == "" {
		return nil, nil
	}
	archive, err := zip.OpenReader(us.archivePath(category))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s archive: %w", category, err)
	}
	defer archive.Close()

	for _, f := range archive.File {
		if f.FileInfo().IsDir() || unitBaseName(f.Name) != name {
			continue
		}
		format, ok := unitFormat(f.Name)
		if !ok {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}

		start := time.Now()
		unit, err := parsers.Parse(format, string(data))
		us.metrics.ObserveParse(format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		us.logger.Info("unit extracted from archive", "unit", name, "category", category, "file", f.Name)
		return unit, nil
	}
	return nil, nil
}

// knownNames lists unit names a lookup could have meant
func (us *UnitService) knownNames(category string) []string {
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" {
			seen[name] = true
		}
	}

	if us.db != nil {
		if names, err := us.db.UnitNames(category); err == nil {
			for _, n := range names {
				add(n)
			}
		}
	}
	if entries, err := os.ReadDir(us.customDir); err == nil {
		for _, e := range entries {
			if _, ok := unitFormat(e.Name()); ok {
				add(unitBaseName(e.Name()))
			}
		}
	}
	if us.archiveDir != "" {
		if archive, err := zip.OpenReader(us.archivePath(category)); err == nil {
			for _, f := range archive.File {
				if _, ok := unitFormat(f.Name); ok {
					add(unitBaseName(f.Name))
				}
			}
			archive.Close()
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// suggest picks the candidate closest to name: a fuzzy containment match
// first, then the smallest edit distance within a third of the name length.
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist <= len(name)/3 {
		return best
	}
	return ""
}

// unitBaseName strips directories and extension from a unit file name
func unitBaseName(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
}

func unitFormat(name string) (models.Format, bool) {
	format, ok := parsers.FormatForPath(name)
	if !ok || (format != models.FormatMTF && format != models.FormatBLK) {
		return "", false
	}
	return format, true
}
