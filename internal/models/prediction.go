package models

const (
	LabelToxic    = "Toxic"
	LabelNonToxic = "Non-Toxic"
)

type PredictionRequest struct {
	Text string `json:"text" form:"text" binding:"required,not_blank"`
}

type Prediction struct {
	ToxicityProbability float64 `json:"toxicity_probability"`
	Prediction          string  `json:"prediction"`
}

// IsToxic reports whether the prediction carries the toxic label.
func (p Prediction) IsToxic() bool {
	return p.Prediction == LabelToxic
}
