package vehicles

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/buymove/buymove-go/internal/models"
	log "github.com/sirupsen/logrus"
)

//go:embed data/vehicles.json
var mockDatasetJSON []byte

var (
	mockOnce    sync.Once
	mockDataset []models.Vehicle
)

// bundledVehicles returns the static mock catalog, normalized. The dataset
// is decoded once per process.
func bundledVehicles() []models.Vehicle {
	mockOnce.Do(func() {
		var raws []map[string]any
		if err := json.Unmarshal(mockDatasetJSON, &raws); err != nil {
			log.WithError(err).Error("bundled vehicle dataset is invalid")
			return
		}
		mockDataset = models.NormalizeAll(raws)
	})
	return mockDataset
}
