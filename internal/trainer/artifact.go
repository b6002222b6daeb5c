package trainer

import (
	"encoding/json"
	"fmt"
)

// Artifact is the published, self-contained form of a trained model: family
// tag, fitted scaler (when the family standardizes), feature column order
// and the model parameters themselves.
type Artifact struct {
	Family  string          `json:"family"`
	Columns []string        `json:"columns"`
	Scaler  *Scaler         `json:"scaler,omitempty"`
	Model   json.RawMessage `json:"model"`
}

// EncodeArtifact serializes a training result for publication.
func EncodeArtifact(res *Result) ([]byte, error) {
	modelJSON, err := json.Marshal(res.Model)
	if err != nil {
		return nil, fmt.Errorf("marshal %s model: %w", res.Family, err)
	}
	return json.MarshalIndent(Artifact{
		Family:  res.Family,
		Columns: res.FeatureColumns,
		Scaler:  res.Scaler,
		Model:   modelJSON,
	}, "", "  ")
}

// DecodeArtifact parses a stored artifact back into a usable model.
func DecodeArtifact(data []byte) (*Artifact, Model, error) {
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, nil, fmt.Errorf("parse artifact: %w", err)
	}
	var model Model
	switch art.Family {
	case FamilyRandomForest:
		model = &RandomForest{}
	case FamilyGradientBoost:
		model = &GradientBoost{}
	case FamilyGradientBoostDeep:
		model = (&GradientBoost{}).asDeep()
	case FamilyLogistic:
		model = &Logistic{}
	case FamilyMLP:
		model = &MLP{}
	default:
		return nil, nil, fmt.Errorf("unknown model family %q", art.Family)
	}
	if err := json.Unmarshal(art.Model, model); err != nil {
		return nil, nil, fmt.Errorf("parse %s model: %w", art.Family, err)
	}
	return &art, model, nil
}

// Score applies the artifact's scaler (if any) and returns P(label==1) for
// one raw feature vector ordered per Columns.
func (a *Artifact) Score(model Model, raw []float64) float64 {
	if a.Scaler != nil {
		raw = a.Scaler.TransformRow(raw)
	}
	return model.PredictProba(raw)
}
