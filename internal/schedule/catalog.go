package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Service is an entry in the service catalog.
type Service struct {
	ID       string
	Duration time.Duration
	Price    float64
}

// Catalog maps service ids to their duration and price.
type Catalog map[string]Service

// DefaultCatalog lists the barbershop services.
func DefaultCatalog() Catalog {
	return Catalog{
		"corte_simples":  {ID: "corte_simples", Duration: 30 * time.Minute, Price: 25.00},
		"corte_barba":    {ID: "corte_barba", Duration: 45 * time.Minute, Price: 35.00},
		"corte_completo": {ID: "corte_completo", Duration: 60 * time.Minute, Price: 45.00},
		"barba":          {ID: "barba", Duration: 30 * time.Minute, Price: 20.00},
		"sobrancelha":    {ID: "sobrancelha", Duration: 15 * time.Minute, Price: 15.00},
	}
}

// Get looks up a service by id.
func (c Catalog) Get(id string) (Service, bool) {
	svc, ok := c[id]
	return svc, ok
}

// IDs returns the catalog's service ids sorted for stable messages.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate rejects services with non-positive durations.
func (c Catalog) Validate() error {
	for id, svc := range c {
		if svc.Duration <= 0 {
			return fmt.Errorf("schedule: service %q has non-positive duration", id)
		}
	}
	return nil
}
