package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type RankedResume struct {
	Resume           string `json:"resume"`
	Score            int    `json:"score"`
	Rank             int    `json:"rank"`
	ExtractionStatus string `json:"extraction_status"`
	ExtractionError  string `json:"extraction_error,omitempty"`
}

type RankResponse struct {
	Count    int            `json:"count"`
	Results  []RankedResume `json:"results"`
	Warnings []string       `json:"warnings,omitempty"`
}

type CreateRunResponse struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Documents []UploadResponse `json:"documents"`
}

type RunResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Results      []RankedResume `json:"results,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}
