package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/adurasov/nutricode/internal/model"
)

// responseSchema is the JSON schema enforced on the extraction response
// via structured outputs. Every attribute carries a value plus the
// service's reasoning; ingredients is the ordered mention list.
const responseSchema = `{
  "type": "object",
  "properties": {
    "age": {"$ref": "#/$defs/attr"},
    "gender": {"$ref": "#/$defs/attr"},
    "form": {"$ref": "#/$defs/attr"},
    "organic": {"$ref": "#/$defs/attr"},
    "count": {"$ref": "#/$defs/attr"},
    "unit": {"$ref": "#/$defs/attr"},
    "size": {"$ref": "#/$defs/attr"},
    "potency": {"$ref": "#/$defs/attr"},
    "ingredients": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "position": {"type": "integer"}
        },
        "required": ["name", "position"],
        "additionalProperties": false
      }
    }
  },
  "required": ["age", "gender", "form", "organic", "count", "unit", "size", "potency", "ingredients"],
  "additionalProperties": false,
  "$defs": {
    "attr": {
      "type": "object",
      "properties": {
        "value": {"type": ["string", "number"]},
        "reasoning": {"type": "string"}
      },
      "required": ["value", "reasoning"],
      "additionalProperties": false
    }
  }
}`

type wireAttribute struct {
	Value     json.RawMessage `json:"value"`
	Reasoning string          `json:"reasoning"`
}

type wireMention struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type wireExtraction struct {
	Age         wireAttribute `json:"age"`
	Gender      wireAttribute `json:"gender"`
	Form        wireAttribute `json:"form"`
	Organic     wireAttribute `json:"organic"`
	Count       wireAttribute `json:"count"`
	Unit        wireAttribute `json:"unit"`
	Size        wireAttribute `json:"size"`
	Potency     wireAttribute `json:"potency"`
	Ingredients []wireMention `json:"ingredients"`
}

// parseResponse decodes and validates the final extraction payload. A
// response that fails validation is a retryable error: the service is
// asked again rather than poisoning the record.
func parseResponse(content []byte) (*model.Extraction, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()

	var wire wireExtraction
	if err := dec.Decode(&wire); err != nil {
		return nil, retryable("decode response", err)
	}

	ext := &model.Extraction{
		Attributes: model.Attributes{
			AgeGroup: toAttribute(wire.Age),
			Gender:   toAttribute(wire.Gender),
			Form:     toAttribute(wire.Form),
			Organic:  toAttribute(wire.Organic),
			Count:    toAttribute(wire.Count),
			Unit:     toAttribute(wire.Unit),
			Size:     toAttribute(wire.Size),
			Potency:  toAttribute(wire.Potency),
		},
	}

	for i, m := range wire.Ingredients {
		if m.Name == "" {
			return nil, retryable("validate response", fmt.Errorf("ingredient %d: empty name", i))
		}
		if m.Position < 0 {
			return nil, retryable("validate response", fmt.Errorf("ingredient %q: negative position %d", m.Name, m.Position))
		}
		ext.Mentions = append(ext.Mentions, model.IngredientMention{
			RawName:  m.Name,
			Position: m.Position,
		})
	}

	if ext.Attributes.AgeGroup.Value == "" || ext.Attributes.Gender.Value == "" {
		return nil, retryable("validate response", fmt.Errorf("missing age group or gender value"))
	}

	return ext, nil
}

// toAttribute folds the string-or-number wire value into a string.
func toAttribute(a wireAttribute) model.Attribute {
	attr := model.Attribute{Reasoning: a.Reasoning}

	var s string
	if err := json.Unmarshal(a.Value, &s); err == nil {
		attr.Value = s
		return attr
	}
	var n float64
	if err := json.Unmarshal(a.Value, &n); err == nil {
		attr.Value = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return attr
}
