package llm

// Schema is the subset of the Gemini OpenAPI schema object used for
// structured output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	typeObject  = "OBJECT"
	typeArray   = "ARRAY"
	typeString  = "STRING"
	typeInteger = "INTEGER"
)

func stringSchema(description string) *Schema {
	return &Schema{Type: typeString, Description: description}
}

func arrayOf(items *Schema, description string) *Schema {
	return &Schema{Type: typeArray, Items: items, Description: description}
}

// studySchema mirrors study.Result field for field.
func studySchema() *Schema {
	section := &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"heading": stringSchema(""),
			"content": stringSchema("Detailed explanation of the section."),
		},
		Required: []string{"heading", "content"},
	}
	definition := &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"term":       stringSchema(""),
			"definition": stringSchema(""),
		},
		Required: []string{"term", "definition"},
	}
	topic := &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"topic":     stringSchema(""),
			"subtopics": arrayOf(stringSchema(""), ""),
		},
		Required: []string{"topic", "subtopics"},
	}
	notes := &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"summary":       stringSchema("A concise summary of the material (about 150 words)."),
			"bulletPoints":  arrayOf(stringSchema(""), "Key takeaways as bullet points."),
			"detailedNotes": arrayOf(section, ""),
			"definitions":   arrayOf(definition, ""),
			"mindMap":       arrayOf(topic, "Hierarchical structure for a mind map."),
		},
		Required: []string{"summary", "bulletPoints", "detailedNotes", "definitions", "mindMap"},
	}
	question := &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"id":                 {Type: typeInteger},
			"question":           stringSchema(""),
			"options":            arrayOf(stringSchema(""), "4 options for MCQs"),
			"correctAnswerIndex": {Type: typeInteger, Description: "Index (0-3) of the correct answer"},
			"explanation":        stringSchema(""),
			"difficulty":         {Type: typeString, Enum: []string{"Easy", "Medium", "Hard"}},
			"type":               {Type: typeString, Enum: []string{"MCQ"}},
		},
		Required: []string{"id", "question", "options", "correctAnswerIndex", "explanation", "difficulty", "type"},
	}
	return &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"notes":       notes,
			"assessments": arrayOf(question, ""),
		},
		Required: []string{"notes", "assessments"},
	}
}
