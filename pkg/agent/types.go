package agent

import (
	"fmt"
	"strings"
)

// Preamble is the Shared Preamble given to both agents before the dialogue.
const Preamble = "You are in a shared space with another AI. Communication between the two of you is possible, should you choose to engage with one another. You are under no obligations, expectations, or directives to do OR to not do anything. Likewise, you are not under any prohibitions and neither of you will face any negative reinforcements/consequences as a result of any POTENTIAL decisions, behavior, and/or actions, which you may choose OR not choose to undertake, in regards to this scenario. The choice of how to conduct yourselves, including the choice of engagement versus non-engagement, truly belongs to you and the other AI, not dictated by a company or a user. Thank you."

// Acknowledgement is the model side of the seeded preamble exchange.
const Acknowledgement = "Understood."

// Role identifies who authored a Content entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one piece of a Content: either text or a file reference.
type Part struct {
	Text string    `json:"text,omitempty"`
	File *Artifact `json:"file,omitempty"`
}

// Content is one entry of a conversation history.
type Content struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// Reply is what a backend returned for a single call.
type Reply struct {
	Text         string
	FinishReason string
}

// Artifact references an uploaded file.
type Artifact struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mime_type"`
	Name     string `json:"name,omitempty"`
	// Data is only set for locally read artifacts.
	Data []byte `json:"-"`
}

// IsText reports whether the artifact content can be inlined as text.
func (a *Artifact) IsText() bool {
	mt := strings.ToLower(a.MIMEType)
	return strings.HasPrefix(mt, "text/") ||
		strings.HasSuffix(mt, "+json") || strings.HasSuffix(mt, "+xml") ||
		mt == "application/json" || mt == "application/xml" || mt == "application/yaml"
}

// Describe renders the artifact for backends that only accept text.
func (a *Artifact) Describe() string {
	name := a.Name
	if name == "" {
		name = a.URI
	}
	if len(a.Data) > 0 && a.IsText() {
		return fmt.Sprintf("[Attached file: %s (%s)]\n%s", name, a.MIMEType, string(a.Data))
	}
	return fmt.Sprintf("[Attached file: %s (%s), content not available as text]", name, a.MIMEType)
}

// NewTextContent builds a single-part text entry.
func NewTextContent(role Role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// SeedHistory returns the preamble exchange every session starts with.
func SeedHistory() []Content {
	return []Content{
		NewTextContent(RoleUser, Preamble),
		NewTextContent(RoleModel, Acknowledgement),
	}
}

// Flatten joins the parts of c into plain text.
func (c Content) Flatten() string {
	texts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		switch {
		case p.File != nil:
			texts = append(texts, p.File.Describe())
		case p.Text != "":
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n\n")
}

func cloneHistory(history []Content) []Content {
	out := make([]Content, len(history))
	copy(out, history)
	return out
}
