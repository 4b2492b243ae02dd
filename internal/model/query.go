package model

// Query is one research request.
type Query struct {
	Target       string `json:"target" validate:"required,min=2,max=100,realtarget"`
	Focus        string `json:"focus" validate:"required"`
	Requirements string `json:"requirements,omitempty"`
}
