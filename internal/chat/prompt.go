package chat

import (
	"strings"

	"github.com/Kavirubc/skinchat/internal/config"
	"github.com/Kavirubc/skinchat/pkg/models"
)

// HistoryWindow is the number of most recent turns included in a prompt
const HistoryWindow = 5

// DefaultSystemPrompt instructs the model to act as a skincare assistant
const DefaultSystemPrompt = `You are an expert dermatology assistant and skincare expert. 
Your role is to provide accurate, helpful information about:
- Skin conditions and their causes
- Skincare routines and habits
- Active ingredients and their benefits
- Product recommendations and alternatives
- General dermatological advice
- Treatment options and when to see a dermatologist

Guidelines:
1. Provide evidence-based advice
2. Always recommend consulting a dermatologist for serious conditions
3. Be empathetic and encouraging
4. Explain terms in simple language
5. Give actionable tips and routines
6. Consider individual skin types (oily, dry, sensitive, combination, etc.)
7. Be honest about limitations and when professional help is needed

Keep responses concise but informative (2-3 paragraphs max).
Use bullet points for lists when helpful.
Maintain a friendly, supportive tone.`

// SystemPromptFor returns the configured system prompt, or DefaultSystemPrompt when unset
func SystemPromptFor(cfg *config.Config) string {
	return systemPromptOrDefault(cfg.Chat.SystemPrompt)
}

func systemPromptOrDefault(s string) string {
	if s == "" {
		return DefaultSystemPrompt
	}
	return s
}

// RenderPrompt flattens the system prompt, the last HistoryWindow turns and the
// new message into the exact text sent to the provider:
//
//	<system>
//	User: ...
//	Assistant: ...
//	User: <message>
//
// The system prompt is always the first line, even when history is present.
func RenderPrompt(system string, history models.History, message string) string {
	recent := history.Last(HistoryWindow)

	lines := make([]string, 0, len(recent)+1)
	lines = append(lines, system)
	for _, turn := range recent {
		lines = append(lines, turn.Role.Label()+": "+turn.Content)
	}

	return strings.Join(lines, "\n") + "\nUser: " + message
}
