package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DrawerFile is the YAML layout of DRAWER_CONFIG:
//
//	drawers:
//	  DRW_001: 2
//	  DRW_003: 10
//	flights: [LAK345, DL045]
type DrawerFile struct {
	Drawers map[string]int `yaml:"drawers"`
	Flights []string       `yaml:"flights"`
}

// LoadDrawerFile reads and validates a drawer registry file
func LoadDrawerFile(path string) (*DrawerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drawer config: %w", err)
	}

	var f DrawerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse drawer config %s: %w", path, err)
	}

	drawers := make(map[string]int, len(f.Drawers))
	for id, capacity := range f.Drawers {
		key := strings.ToUpper(strings.TrimSpace(id))
		if key == "" {
			return nil, fmt.Errorf("drawer config %s: empty drawer id", path)
		}
		if capacity < 0 {
			return nil, fmt.Errorf("drawer config %s: negative capacity for %s", path, key)
		}
		drawers[key] = capacity
	}
	f.Drawers = drawers

	flights := f.Flights[:0]
	for _, fl := range f.Flights {
		if fl = strings.ToUpper(strings.TrimSpace(fl)); fl != "" {
			flights = append(flights, fl)
		}
	}
	f.Flights = flights

	return &f, nil
}
