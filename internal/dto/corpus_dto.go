package dto

import "time"

type IngestCorpusRequest struct {
	Path   string `json:"path" validate:"max=1024"`
	Source string `json:"source" validate:"max=100"`
}

// IngestCorpusMessage is the job payload carried on the in-process bus.
type IngestCorpusMessage struct {
	JobId  string `json:"job_id"`
	Path   string `json:"path"`
	Source string `json:"source"`
}

type IngestCorpusResponse struct {
	JobId  string `json:"job_id"`
	Path   string `json:"path"`
	Source string `json:"source"`
}

type CorpusStatusResponse struct {
	Source     string      `json:"source"`
	Passages   int64       `json:"passages"`
	Ingesting  bool        `json:"ingesting"`
	LastIngest *IngestInfo `json:"last_ingest,omitempty"`
}

type IngestInfo struct {
	JobId      string    `json:"job_id"`
	Path       string    `json:"path"`
	Passages   int       `json:"passages"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
