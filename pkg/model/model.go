package model

// Guide is the structured answer handed back to the user: one overview
// sentence, the ordered repair steps and the safety tips.
type Guide struct {
	Overview   string   `json:"overview" yaml:"overview"`
	Steps      []string `json:"steps" yaml:"steps"`
	SafetyTips []string `json:"safetyTips" yaml:"safetyTips"`
}

// DiagnosisRequest is what the user submits: a short problem description,
// an optional photo and an optional category label (plumbing, electrical...).
type DiagnosisRequest struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Image       *Image `json:"-"`
}

// Image is a decoded photo attached to a diagnosis request.
type Image struct {
	Data      []byte
	MediaType string
}

func (i *Image) Empty() bool {
	return i == nil || len(i.Data) == 0
}
