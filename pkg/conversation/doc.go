// Package conversation runs turn-based dialogues between two agents and an
// optional human operator.
//
// A Coordinator owns the settings, the operator prompt and the transcript
// sinks. A Strategy (Observer, ChatRoom or Explore) drives the agent
// sessions round by round through the Coordinator, which enforces the turn
// cap, the pacing delay and the record-then-display order of messages.
package conversation
