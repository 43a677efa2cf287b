// File: internal/usecase/prompt.go
package usecase

import "mindmate-chat/internal/domain/model"

// Fixed instructions prepended by the composer. The persona line is only
// ever part of the first mental-health turn's text, so it is never
// repeated: later turns replay it implicitly through the history.
const (
	mentalHealthPersona = "You are a compassionate mental health assistant named MindMate. " +
		"Start the conversation with a warm greeting and ask how the user is feeling. " +
		"Respond with empathy and care."

	studyInstruction = "You are an AI Study Buddy. Provide factual and concise answers " +
		"based on the provided study materials and your general knowledge. " +
		"If the answer is not in the provided context, state that. Respond politely."

	studyFallbackInstruction = "You are an AI Study Buddy. Provide factual and concise answers " +
		"based on your general knowledge. Respond politely."
)

// ComposePrompt builds the outbound user-role text for one turn.
//
// mental_health: the persona instruction wraps the very first message of a
// session and nothing else. study_buddy: the instruction, an optional
// "Study Materials Context:" block and a "User Question:" label are joined
// with blank-line separators in a fixed order.
func ComposePrompt(mode model.ChatMode, userText, retrieved string, priorTurns int) string {
	switch mode {
	case model.ModeStudyBuddy:
		if retrieved != "" {
			return studyInstruction +
				"\n\nStudy Materials Context:\n" + retrieved +
				"\n\nUser Question: " + userText
		}
		return studyFallbackInstruction + "\n\nUser Question: " + userText
	default: // mental_health
		if priorTurns == 0 {
			return mentalHealthPersona + " User's first message: " + userText
		}
		return userText
	}
}
