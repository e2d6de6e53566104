package conversation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidMode is returned by ParseMode for unknown selections.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrSetup marks errors that end the current mode but not the process.
	ErrSetup = errors.New("mode setup failed")

	// ErrNoArtifact is returned when explore mode gets no file path.
	ErrNoArtifact = fmt.Errorf("%w: no file path", ErrSetup)
)

// Speaker identifies who produced a Message.
type Speaker int

const (
	SpeakerAgentA Speaker = iota
	SpeakerAgentB
	SpeakerHuman
)

func (s Speaker) String() string {
	switch s {
	case SpeakerAgentA:
		return "agent_a"
	case SpeakerAgentB:
		return "agent_b"
	case SpeakerHuman:
		return "human"
	default:
		return "unknown"
	}
}

// HumanLabel is the display label of operator messages.
const HumanLabel = "USER"

// Message is one displayed entry of the conversation. Failed agent calls
// still produce a Message carrying the placeholder text.
type Message struct {
	Speaker Speaker
	Label   string
	Text    string
	Turn    int
}

// Settings are fixed for the duration of a conversation.
type Settings struct {
	// MaxTurns caps the rounds; 0 means unlimited.
	MaxTurns int
	Delay    time.Duration
	ModelA   string
	ModelB   string
}

// LabelA is agent A's display label
func (s Settings) LabelA() string {
	return "(AI1) " + s.ModelA
}

// LabelB is agent B's display label
func (s Settings) LabelB() string {
	return "(AI2) " + s.ModelB
}

// TurnLimit renders the cap for the operator prompt.
func (s Settings) TurnLimit() string {
	if s.MaxTurns == 0 {
		return "∞"
	}
	return strconv.Itoa(s.MaxTurns)
}

// Mode selects a Strategy.
type Mode string

const (
	ModeObserver Mode = "observer"
	ModeChatRoom Mode = "chatroom"
	ModeExplore  Mode = "explore"
)

// ParseMode accepts a menu number or a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", string(ModeObserver):
		return ModeObserver, nil
	case "2", string(ModeChatRoom), "chat-room", "chat":
		return ModeChatRoom, nil
	case "3", string(ModeExplore), "cooperative":
		return ModeExplore, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MenuPrompt is shown when the mode is chosen interactively.
const MenuPrompt = "Choose a mode:\n\n" +
	"1. Observer Mode (AI talks to AI)\n" +
	"2. Chat Room Mode (3-way chat)\n" +
	"3. Cooperative Exploration (AIs discuss a file)\n\n" +
	"_enter 1, 2, or 3:_ "
