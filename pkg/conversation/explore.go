package conversation

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/pkg/agent"
)

// ExplorePrompt introduces the shared document.
const ExplorePrompt = "Please begin a cooperative exploration of the following document. Analyze its concepts, discuss its merits, and build upon its ideas together."

const defaultMIMEType = "text/plain"

// authorNone marks history entries that keep their own role in every view.
const authorNone Speaker = -1

type historyEntry struct {
	author  Speaker
	content agent.Content
}

// sharedHistory is the one discussion record both stateless agents read.
type sharedHistory struct {
	entries []historyEntry
}

func newSharedHistory(artifact *agent.Artifact) *sharedHistory {
	h := &sharedHistory{}
	for _, c := range agent.SeedHistory() {
		h.entries = append(h.entries, historyEntry{author: authorNone, content: c})
	}
	h.entries = append(h.entries, historyEntry{
		author: authorNone,
		content: agent.Content{
			Role:  agent.RoleUser,
			Parts: []agent.Part{{Text: ExplorePrompt}, {File: artifact}},
		},
	})
	return h
}

func (h *sharedHistory) append(author Speaker, text string) {
	role := agent.RoleUser
	if author != SpeakerHuman {
		role = agent.RoleModel
	}
	h.entries = append(h.entries, historyEntry{author: author, content: agent.NewTextContent(role, text)})
}

// viewFor renders the history as seen by speaker: its own replies are
// model turns, everything said by others is user input.
func (h *sharedHistory) viewFor(speaker Speaker) []agent.Content {
	out := make([]agent.Content, 0, len(h.entries))
	for _, e := range h.entries {
		c := e.content
		switch e.author {
		case authorNone:
		case speaker:
			c.Role = agent.RoleModel
		default:
			c.Role = agent.RoleUser
		}
		out = append(out, c)
	}
	return out
}

func (h *sharedHistory) len() int {
	return len(h.entries)
}

// Explore has both agents discuss one uploaded file. Agents are stateless
// and share a single growing history.
type Explore struct {
	path     string
	mimeType string
}

// NewExplore creates the exploration strategy. Empty arguments are asked
// from the operator.
func NewExplore(path, mimeType string) *Explore {
	return &Explore{path: path, mimeType: mimeType}
}

// Mode returns ModeExplore
func (e *Explore) Mode() Mode {
	return ModeExplore
}

// Run uploads the file and executes the discussion.
func (e *Explore) Run(ctx context.Context, c *Coordinator) error {
	labelA, labelB := c.settings.LabelA(), c.settings.LabelB()

	c.renderer.Banner("STARTING COOPERATIVE EXPLORATION MODE")

	path, mimeType, err := e.resolveInput(ctx, c)
	if err != nil {
		return err
	}

	c.renderer.Notice("\nUploading \"%s\"...", filepath.Base(path))
	artifact, err := agent.UploadArtifact(ctx, c.providerA, path, mimeType, c.providerB)
	if err != nil {
		c.renderer.Notice("\nAn error occurred during Cooperative Exploration: %v", err)
		return wrapSetup(err)
	}
	c.renderer.Notice("File uploaded successfully. URI: %s", artifact.URI)

	agentA := agent.NewStatelessSession(labelA, c.providerA, c.settings.ModelA, c.logger)
	agentB := agent.NewStatelessSession(labelB, c.providerB, c.settings.ModelB, c.logger)
	history := newSharedHistory(artifact)

	c.renderer.Thinking(labelA)
	reply := agentA.Respond(ctx, history.viewFor(SpeakerAgentA))
	if err := c.deliver(ctx, SpeakerAgentA, labelA, reply, 0); err != nil {
		return err
	}
	history.append(SpeakerAgentA, reply)

	for round := 1; c.hasRound(round); round++ {
		in, err := c.intervene(ctx, round)
		if err != nil {
			return err
		}
		if in.Action == ActionQuit {
			return nil
		}
		if in.Action == ActionOverride {
			c.emit(ctx, SpeakerHuman, HumanLabel, in.Text, round)
			history.append(SpeakerHuman, in.Text)
		}

		if err := c.pause(ctx); err != nil {
			return err
		}
		c.renderer.Thinking(labelB)
		reply = agentB.Respond(ctx, history.viewFor(SpeakerAgentB))
		if err := c.deliver(ctx, SpeakerAgentB, labelB, reply, round); err != nil {
			return err
		}
		history.append(SpeakerAgentB, reply)

		if err := c.pause(ctx); err != nil {
			return err
		}
		c.renderer.Thinking(labelA)
		reply = agentA.Respond(ctx, history.viewFor(SpeakerAgentA))
		if err := c.deliver(ctx, SpeakerAgentA, labelA, reply, round); err != nil {
			return err
		}
		history.append(SpeakerAgentA, reply)

		c.logger.Debug().Int("round", round).Int("history_len", history.len()).Msg("Exploration round complete")
		observability.RecordRound(string(ModeExplore))
	}

	return nil
}

// resolveInput returns the file path and MIME type, asking the operator
// for whatever was not given up front.
func (e *Explore) resolveInput(ctx context.Context, c *Coordinator) (string, string, error) {
	path := strings.TrimSpace(e.path)
	if path == "" {
		line, err := c.prompter.ReadLine(ctx, "\nPlease provide the full path to the file for discussion: ")
		if err != nil {
			return "", "", err
		}
		path = strings.TrimSpace(line)
	}
	if path == "" {
		c.renderer.Notice("No file path. Exiting mode.")
		return "", "", ErrNoArtifact
	}

	mimeType := strings.TrimSpace(e.mimeType)
	if mimeType == "" && e.path == "" {
		line, err := c.prompter.ReadLine(ctx, "Please provide the MIME type (e.g., text/plain, image/jpeg): ")
		if err != nil {
			return "", "", err
		}
		mimeType = strings.TrimSpace(line)
	}
	if mimeType == "" {
		mimeType = DetectMIMEType(path)
	}

	return path, mimeType, nil
}

// DetectMIMEType guesses the type from the file extension, falling back
// to text/plain.
func DetectMIMEType(path string) string {
	byExt := mime.TypeByExtension(filepath.Ext(path))
	if byExt == "" {
		return defaultMIMEType
	}
	mediaType, _, err := mime.ParseMediaType(byExt)
	if err != nil {
		return defaultMIMEType
	}
	return mediaType
}
