package catalog

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xelth-com/drawerscan/internal/config"
	"github.com/xelth-com/drawerscan/internal/models"
	"github.com/xelth-com/drawerscan/internal/utils"
)

// Catalog is the static startup data: drawer capacities and selectable flights
type Catalog struct {
	Drawers map[string]int
	Flights []string
	Source  string
}

// FromConfig builds the catalog from environment / YAML configuration
func FromConfig(cfg *config.Config) *Catalog {
	c := &Catalog{
		Drawers: make(map[string]int, len(cfg.Drawers)),
		Source:  "config",
	}
	for id, capacity := range cfg.Drawers {
		c.Drawers[utils.NormalizeID(id)] = capacity
	}
	c.Flights = normalizeFlights(cfg.Flights)
	return c
}

// Load reads active drawers and flights from the catalog tables. Empty tables
// are seeded from fallback first.
func Load(db *gorm.DB, fallback *Catalog, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&models.CatalogDrawer{}, &models.CatalogFlight{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}

	if fallback != nil {
		if err := seed(db, fallback, log); err != nil {
			return nil, err
		}
	}

	var drawers []models.CatalogDrawer
	if err := db.Where("active = ?", true).Order("code").Find(&drawers).Error; err != nil {
		return nil, fmt.Errorf("load drawers: %w", err)
	}
	var flights []models.CatalogFlight
	if err := db.Where("active = ?", true).Order("number").Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("load flights: %w", err)
	}

	c := FromRecords(drawers, flights)
	log.Info("catalog loaded from database", zap.Int("drawers", len(c.Drawers)), zap.Int("flights", len(c.Flights)))
	return c, nil
}

// FromRecords converts catalog rows. Inactive rows and negative capacities are skipped.
func FromRecords(drawers []models.CatalogDrawer, flights []models.CatalogFlight) *Catalog {
	c := &Catalog{Drawers: make(map[string]int, len(drawers)), Source: "database"}
	for _, d := range drawers {
		id := utils.NormalizeID(d.Code)
		if !d.Active || id == "" || d.Capacity < 0 {
			continue
		}
		c.Drawers[id] = d.Capacity
	}
	numbers := make([]string, 0, len(flights))
	for _, f := range flights {
		if f.Active {
			numbers = append(numbers, f.Number)
		}
	}
	c.Flights = normalizeFlights(numbers)
	return c
}

// HasFlight reports whether a flight is in the catalog
func (c *Catalog) HasFlight(flightID string) bool {
	id := utils.NormalizeID(flightID)
	for _, f := range c.Flights {
		if f == id {
			return true
		}
	}
	return false
}

func seed(db *gorm.DB, fallback *Catalog, log *zap.Logger) error {
	var n int64
	if err := db.Model(&models.CatalogDrawer{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count drawers: %w", err)
	}
	if n == 0 && len(fallback.Drawers) > 0 {
		ids := make([]string, 0, len(fallback.Drawers))
		for id := range fallback.Drawers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		rows := make([]models.CatalogDrawer, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.CatalogDrawer{Code: id, Capacity: fallback.Drawers[id], Active: true})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed drawers: %w", err)
		}
		log.Info("seeded catalog drawers", zap.Int("count", len(rows)))
	}

	if err := db.Model(&models.CatalogFlight{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count flights: %w", err)
	}
	if n == 0 && len(fallback.Flights) > 0 {
		rows := make([]models.CatalogFlight, 0, len(fallback.Flights))
		for _, f := range fallback.Flights {
			rows = append(rows, models.CatalogFlight{Number: f, Active: true})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed flights: %w", err)
		}
		log.Info("seeded catalog flights", zap.Int("count", len(rows)))
	}
	return nil
}

// normalizeFlights uppercases, drops blanks and duplicates, keeps order
func normalizeFlights(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, f := range in {
		id := utils.NormalizeID(f)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
