package dto

type FacilityLookupRequest struct {
	Query string `query:"q" json:"q" validate:"required,max=300"`
}

type FacilityLookupResponse struct {
	Query      string   `json:"query"`
	Outcome    string   `json:"outcome"`
	Facilities []string `json:"facilities"`
	Message    string   `json:"message,omitempty"`
}
