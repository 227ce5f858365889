package catalog

func str() map[string]any      { return map[string]any{"type": "string"} }
func slug() map[string]any     { return map[string]any{"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"} }
func integer() map[string]any  { return map[string]any{"type": "integer", "minimum": 0} }
func boolean() map[string]any  { return map[string]any{"type": "boolean"} }
func strList() map[string]any  { return map[string]any{"type": "array", "items": str()} }
func slugList() map[string]any { return map[string]any{"type": "array", "items": slug()} }

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// fileSchema is the JSON schema a catalog document must satisfy before it is
// decoded into typed structs.
var fileSchema = map[string]any{
	"$defs": map[string]any{
		"requirement": object([]any{}, map[string]any{
			"topics":   slugList(),
			"chapters": slugList(),
			"chapter_counts": map[string]any{
				"type": "array",
				"items": object([]any{"chapter", "count"}, map[string]any{
					"chapter": slug(),
					"count":   map[string]any{"type": "integer", "minimum": 1},
				}),
			},
			"strict": map[string]any{"type": "boolean"},
			"any_of": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"$ref": "#/$defs/requirement"},
			},
		}),
		"question": object([]any{"slug", "difficulty", "type", "phase", "prompt", "answer"}, map[string]any{
			"slug":        slug(),
			"difficulty":  map[string]any{"type": "string", "enum": []any{"basic", "medium", "advanced"}},
			"type":        map[string]any{"type": "string", "enum": []any{"mcq", "code_output", "code_complete", "code"}},
			"phase":       map[string]any{"type": "string", "enum": []any{"micro", "quiz", "boss"}},
			"rank":        slug(),
			"prompt":      map[string]any{"type": "string", "minLength": 1},
			"code":        str(),
			"choices":     strList(),
			"answer":      map[string]any{"type": "string", "minLength": 1},
			"tips":        map[string]any{"type": "array", "items": str(), "maxItems": 2},
			"explanation": str(),
			"anchor":      str(),
			"doc_page":    str(),
		}),
		"doc_page": object([]any{"slug", "title"}, map[string]any{
			"slug":              str(),
			"title":             str(),
			"estimated_minutes": integer(),
			"objectives":        strList(),
			"blocks": map[string]any{
				"type": "array",
				"items": object([]any{"anchor", "kind", "title"}, map[string]any{
					"anchor":  slug(),
					"kind":    map[string]any{"type": "string", "enum": []any{"explanation", "rule", "example", "gotcha", "warning"}},
					"title":   str(),
					"excerpt": str(),
				}),
			},
		}),
		"topic": object([]any{"slug", "title", "order"}, map[string]any{
			"slug":              slug(),
			"title":             str(),
			"order":             integer(),
			"locked_by_default": boolean(),
			"story_intro":       str(),
			"pass_through":      boolean(),
			"doc_page":          map[string]any{"$ref": "#/$defs/doc_page"},
			"questions":         map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/question"}},
		}),
		"chapter": object([]any{"slug", "title", "order"}, map[string]any{
			"slug":              slug(),
			"title":             str(),
			"order":             integer(),
			"locked_by_default": boolean(),
			"story_intro":       str(),
			"topics":            map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/topic"}},
		}),
		"book": object([]any{"slug", "title", "order", "chapters"}, map[string]any{
			"slug":              slug(),
			"title":             str(),
			"order":             integer(),
			"locked_by_default": boolean(),
			"story_intro":       str(),
			"chapters":          map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/chapter"}},
		}),
		"rank": object([]any{"slug", "level", "title", "xp_min"}, map[string]any{
			"slug":              slug(),
			"level":             integer(),
			"title":             str(),
			"description":       str(),
			"accent":            str(),
			"xp_min":            integer(),
			"requirement":       map[string]any{"$ref": "#/$defs/requirement"},
			"locked_by_content": boolean(),
			"boss_exam": object([]any{"question_count", "allowed_tip_count", "allowed_doc_reveal_count", "mastery_min_half_steps"}, map[string]any{
				"question_count":           map[string]any{"type": "integer", "minimum": 1},
				"allowed_tip_count":        integer(),
				"allowed_doc_reveal_count": integer(),
				"mastery_min_half_steps":   map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
				"difficulty_mix": object([]any{"basic", "medium", "advanced"}, map[string]any{
					"basic":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					"medium":   map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					"advanced": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				}),
			}),
		}),
	},
	"type": "object",
	"properties": map[string]any{
		"books": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"$ref": "#/$defs/book"}},
		"ranks": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"$ref": "#/$defs/rank"}},
	},
	"required":             []any{"books", "ranks"},
	"additionalProperties": false,
}
