package gemini

// Role values accepted by the generateContent endpoint.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Content is one turn of the prompt: a role plus its text parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment within a Content.
type Part struct {
	Text string `json:"text"`
}

// NewUserContent builds a single-part user turn.
func NewUserContent(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// NewModelContent builds a single-part model turn.
func NewModelContent(text string) Content {
	return Content{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// generateRequest is the wire shape of a generateContent request body.
type generateRequest struct {
	Contents []Content `json:"contents"`
}

// generateResponse is the wire shape of a generateContent response. Only the
// path candidates[0].content.parts[0].text is consumed; decoding the whole
// document in one step means a malformed response is a classified error, never
// partial state.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// text extracts the reply text, reporting whether the expected nested field
// chain was present and non-empty.
func (r *generateResponse) text() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}
