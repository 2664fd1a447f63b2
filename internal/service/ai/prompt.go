package ai

import (
	"fmt"
	"strings"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
}

// languageInstruction appends the language directive to a persona prompt.
func languageInstruction(language string) string {
	name, ok := languageNames[language]
	if !ok {
		name = "English"
	}
	return " You must respond exclusively in " + name + "."
}

// historyBlock renders the transcript as "Name: text" lines, oldest first.
func historyBlock(history []debate.Message, participants []debate.Participant) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		name := "Unknown"
		if p, ok := debate.FindParticipant(participants, msg.AuthorID); ok {
			name = p.Name
		}
		lines = append(lines, name+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}

// speakerList renders participants as "Name (id: x)" entries for the
// moderator to choose from.
func speakerList(participants []debate.Participant) string {
	entries := make([]string, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, fmt.Sprintf("%s (id: %s)", p.Name, p.ID))
	}
	return strings.Join(entries, ", ")
}

func openingPrompt(topic string, members []debate.Participant) string {
	return fmt.Sprintf(
		"Let's begin the debate. The topic is: %q. Introduce the topic and the participants, then choose the first speaker from the following list: %s.",
		topic, speakerList(members))
}

func contributionPrompt(topic string, history string) string {
	return fmt.Sprintf(
		"The debate topic is: %q. Here is the debate history so far:\n%s\n\nIt is now your turn. What is your contribution?",
		topic, history)
}

func decisionPrompt(topic, history string, lastSpeaker debate.Participant, candidates []debate.Participant) string {
	return fmt.Sprintf(
		"The debate topic is: %q. Here is the debate history:\n%s\n\n%s just finished speaking. Briefly summarize their point and decide who should speak next from this list: %s. Pass the turn to them.",
		topic, history, lastSpeaker.Name, speakerList(candidates))
}

// Example payloads embedded in the prompt so that any backend returns the
// declared fields, whether or not it supports native structured output.
const (
	moderatorPayloadExample = `{
  "contribution": "Your summary of the previous point and your transition to the next speaker.",
  "nextSpeakerId": "The ID of the next participant to speak."
}`

	memberPayloadExample = `{
  "contribution": "Your contribution to the debate, in character."
}`
)

func jsonInstruction(example string) string {
	return "\n\nIMPORTANT: You must respond with a single, valid JSON object that strictly follows this structure. Do not add any text, explanation, or markdown formatting before or after the JSON object.\n\nJSON Structure:\n" + example + "\n"
}
