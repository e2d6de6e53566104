package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifact_IsText(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"text/plain", true},
		{"text/markdown", true},
		{"application/json", true},
		{"application/ld+json", true},
		{"image/png", false},
		{"application/pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Artifact{MIMEType: tt.mime}).IsText())
		})
	}
}

func TestArtifact_Describe(t *testing.T) {
	text := &Artifact{Name: "a.txt", MIMEType: "text/plain", Data: []byte("body")}
	assert.Equal(t, "[Attached file: a.txt (text/plain)]\nbody", text.Describe())

	image := &Artifact{URI: "https://files/1", MIMEType: "image/png"}
	assert.Contains(t, image.Describe(), "https://files/1")
	assert.Contains(t, image.Describe(), "not available as text")
}

func TestContent_Flatten(t *testing.T) {
	c := Content{
		Role: RoleUser,
		Parts: []Part{
			{Text: "Please discuss."},
			{File: &Artifact{Name: "a.txt", MIMEType: "text/plain", Data: []byte("body")}},
			{},
		},
	}
	assert.Equal(t, "Please discuss.\n\n[Attached file: a.txt (text/plain)]\nbody", c.Flatten())
}
