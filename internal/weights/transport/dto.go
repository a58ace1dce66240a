package transport

// SaveWeightsRequest replaces the whole weight document.
type SaveWeightsRequest struct {
	Weights map[string]float64 `json:"weights" validate:"required,min=1,dive,keys,weightkey,endkeys,gte=0"`
}

// WeightsResponse is the effective weight document with the keys grouped by
// category for display.
type WeightsResponse struct {
	Weights     map[string]float64 `json:"weights"`
	Structure   []string           `json:"structure"`
	Consumption []string           `json:"consumption"`
}
