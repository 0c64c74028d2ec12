package dto

import "encoding/json"

type SummarizeRequest struct {
	Notes json.RawMessage `json:"notes"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
