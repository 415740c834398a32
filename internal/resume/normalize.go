package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseRecord decodes raw JSON into a normalized Record.
func ParseRecord(data []byte) (*Record, []Diagnostic, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if raw == nil {
		return nil, nil, ErrInvalidRecord
	}
	rec, diags := Normalize(raw)
	return rec, diags, nil
}

// Normalize converts a loosely typed resume map into a Record.
// Values of the wrong shape are dropped and reported as diagnostics; they never fail the call.
func Normalize(raw map[string]interface{}) (*Record, []Diagnostic) {
	n := &normalizer{raw: raw}
	rec := &Record{
		FirstName:       n.str(raw, "firstName", "firstName"),
		LastName:        n.str(raw, "lastName", "lastName"),
		Email:           n.str(raw, "email", "email"),
		Phone:           n.str(raw, "phone", "phone"),
		LinkedIn:        n.str(raw, "linkedin", "linkedin"),
		Address:         n.str(raw, "address", "address"),
		CareerObjective: n.str(raw, "careerObjective", "careerObjective"),
	}

	n.objects("experience", func(path string, m map[string]interface{}) {
		rec.Experience = append(rec.Experience, Experience{
			Company:     n.str(m, "company", path),
			Role:        n.str(m, "role", path),
			StartDate:   n.str(m, "startDate", path),
			EndDate:     n.str(m, "endDate", path),
			Description: n.str(m, "description", path),
		})
	})

	n.objects("projects", func(path string, m map[string]interface{}) {
		rec.Projects = append(rec.Projects, Project{
			Title:        n.str(m, "title", path),
			Role:         n.str(m, "role", path),
			Description:  n.str(m, "description", path),
			Technologies: n.str(m, "technologies", path),
		})
	})

	n.objects("education", func(path string, m map[string]interface{}) {
		rec.Education = append(rec.Education, Education{
			Institution: n.str(m, "institution", path),
			Degree:      n.str(m, "degree", path),
			EndYear:     n.str(m, "endYear", path),
			Score:       n.str(m, "score", path),
		})
	})

	if items, ok := n.list("skills"); ok {
		for i, item := range items {
			path := fmt.Sprintf("skills[%d]", i)
			switch v := item.(type) {
			case string:
				rec.Skills = append(rec.Skills, v)
			case map[string]interface{}:
				if name, ok := v["name"].(string); ok && name != "" {
					rec.Skills = append(rec.Skills, name)
				} else {
					n.drop(path, "skill object has no name")
				}
			default:
				n.drop(path, fmt.Sprintf("expected string or object, got %s", kindOf(item)))
			}
		}
	}

	n.objects("trainings", func(path string, m map[string]interface{}) {
		rec.Trainings = append(rec.Trainings, Training{
			Title:    n.str(m, "title", path),
			Provider: n.str(m, "provider", path),
		})
	})

	n.objects("accomplishments", func(path string, m map[string]interface{}) {
		rec.Accomplishments = append(rec.Accomplishments, Accomplishment{
			Title: n.str(m, "title", path),
		})
	})

	return rec, n.diags
}

type normalizer struct {
	raw   map[string]interface{}
	diags []Diagnostic
}

func (n *normalizer) drop(path, reason string) {
	n.diags = append(n.diags, Diagnostic{Path: path, Reason: reason})
}

// str reads an optional string field. Missing and null values are silent.
func (n *normalizer) str(m map[string]interface{}, key, path string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		if path != key {
			path = path + "." + key
		}
		n.drop(path, fmt.Sprintf("expected string, got %s", kindOf(v)))
		return ""
	}
	return s
}

func (n *normalizer) list(key string) ([]interface{}, bool) {
	v, ok := n.raw[key]
	if !ok || v == nil {
		return nil, false
	}
	items, ok := v.([]interface{})
	if !ok {
		n.drop(key, fmt.Sprintf("expected list, got %s", kindOf(v)))
		return nil, false
	}
	return items, true
}

func (n *normalizer) objects(key string, fn func(path string, m map[string]interface{})) {
	items, ok := n.list(key)
	if !ok {
		return
	}
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", key, i)
		m, ok := item.(map[string]interface{})
		if !ok {
			n.drop(path, fmt.Sprintf("expected object, got %s", kindOf(item)))
			continue
		}
		fn(path, m)
	}
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
