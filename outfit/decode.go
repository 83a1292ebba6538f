package outfit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RawOutfit is the fixed shape every stylist outfit is normalized into. The
// model occasionally wraps the payload in prose or emits numeric fields as
// strings; all of that tolerance lives here so the rest of the pipeline never
// branches on field shape.
type RawOutfit struct {
	Name        string
	ItemIDs     []uint
	Confidence  int
	Description string
	StylingTips string
	Occasion    string
}

type rawOutfitJSON struct {
	Name        string          `json:"name"`
	ItemIDs     json.RawMessage `json:"item_ids"`
	Confidence  json.RawMessage `json:"confidence"`
	Description string          `json:"description"`
	StylingTips string          `json:"styling_tips"`
	Occasion    string          `json:"occasion"`
}

func (r *RawOutfit) UnmarshalJSON(data []byte) error {
	var raw rawOutfitJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(raw.Name)
	r.Description = raw.Description
	r.StylingTips = raw.StylingTips
	r.Occasion = strings.ToLower(strings.TrimSpace(raw.Occasion))
	r.ItemIDs = decodeIDList(raw.ItemIDs)
	r.Confidence = decodeNumber(raw.Confidence)
	return nil
}

// decodeIDList accepts an array of integers, an array of numeric strings, or
// a single scalar. Anything non-numeric is skipped.
func decodeIDList(data json.RawMessage) []uint {
	if len(data) == 0 {
		return nil
	}
	var anyList []any
	if err := json.Unmarshal(data, &anyList); err != nil {
		anyList = []any{}
		var single any
		if err := json.Unmarshal(data, &single); err == nil {
			anyList = append(anyList, single)
		}
	}
	ids := make([]uint, 0, len(anyList))
	for _, entry := range anyList {
		switch v := entry.(type) {
		case float64:
			if v > 0 {
				ids = append(ids, uint(v))
			}
		case string:
			if parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
				ids = append(ids, uint(parsed))
			}
		}
	}
	return ids
}

func decodeNumber(data json.RawMessage) int {
	if len(data) == 0 {
		return 0
	}
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		return int(number)
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return int(parsed)
		}
	}
	return 0
}

type stylistPayload struct {
	Outfits []RawOutfit `json:"outfits"`
}

// ParseStylistOutfits extracts the first well-formed JSON object from the
// stylist's textual response, tolerating markdown fences and surrounding
// prose. An unparseable response is a composer failure, never a crash.
func ParseStylistOutfits(text string) ([]RawOutfit, error) {
	block, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}
	var payload stylistPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil, fmt.Errorf("stylist payload does not decode: %v", err)
	}
	if len(payload.Outfits) == 0 {
		return nil, errors.New("stylist payload contains no outfits")
	}
	return payload.Outfits, nil
}

// extractJSONObject returns the first balanced {...} block in the text,
// ignoring braces inside string literals.
func extractJSONObject(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.Index(text, "{")
	if start == -1 {
		return "", errors.New("no JSON object in stylist response")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}
	return "", errors.New("unterminated JSON object in stylist response")
}
