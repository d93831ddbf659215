package assistant

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

const assistantName = "DineWise"

// historyLimit caps how many past messages are rendered into a prompt
const historyLimit = 20

func writePreferences(sb *strings.Builder, location string, prefs model.Preferences) {
	if location == "" {
		location = "Not specified"
	}
	fmt.Fprintf(sb, "- Location: %s\n", location)

	if len(prefs.Cuisines) > 0 {
		fmt.Fprintf(sb, "- Favorite cuisines: %s\n", strings.Join(prefs.Cuisines, ", "))
	}
	if prefs.PriceRange != "" {
		fmt.Fprintf(sb, "- Preferred price range: %s\n", prefs.PriceRange)
	}
	if len(prefs.DietaryRestrictions) > 0 {
		fmt.Fprintf(sb, "- Dietary restrictions: %s\n", strings.Join(prefs.DietaryRestrictions, ", "))
	}
}

func writeHistory(sb *strings.Builder, history []model.Message) {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, msg := range history {
		fmt.Fprintf(sb, "%s: %s\n", msg.Role, msg.Content)
	}
}

func buildClassifySystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("Analyze the user's message and extract the intent and entities.\n\n")
	sb.WriteString("## Intents:\n\n")
	sb.WriteString("- search_restaurants: the user wants restaurant suggestions\n")
	sb.WriteString("- make_reservation: the user wants to book a table\n")
	sb.WriteString("- modify_preferences: the user wants to change stored preferences or location\n")
	sb.WriteString("- general_chat: anything else\n\n")
	sb.WriteString("## Entities (omit or leave empty when not mentioned):\n\n")
	sb.WriteString("- cuisine: cuisine name such as Italian or Thai\n")
	sb.WriteString("- priceRange: one of $, $$, $$$, $$$$\n")
	sb.WriteString("- location: a place the user names for this request\n")
	sb.WriteString("- partySize: number of diners\n")
	sb.WriteString("- dateTime: requested date and time as written by the user\n")
	sb.WriteString("- mood: romantic, casual, upscale, quick, healthy or the user's own word\n")
	sb.WriteString("- dietaryRestrictions: list such as vegetarian or gluten-free\n\n")
	sb.WriteString("confidence is a number between 0 and 1.\n")

	return sb.String()
}

func buildClassifyUserPrompt(input ClassifyInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Message: %q\n\n", input.Utterance)
	sb.WriteString("## Context:\n\n")
	writePreferences(&sb, input.Location, input.Preferences)

	if len(input.History) > 0 {
		sb.WriteString("\n## Conversation so far:\n\n")
		writeHistory(&sb, input.History)
	}

	return sb.String()
}

func buildRecommendSystemPrompt() string {
	return "You are a restaurant recommendation expert. Based on the user's request and preferences, " +
		"provide restaurant recommendations with reasoning. Each recommendation needs a search query " +
		"suitable for a restaurant search API."
}

func buildRecommendUserPrompt(input RecommendInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Request: %q\n", input.Request)
	sb.WriteString("\n## User:\n\n")
	writePreferences(&sb, input.Location, input.Preferences)
	sb.WriteString("\nProvide 2-3 restaurant recommendations that match this request.\n")

	return sb.String()
}

func buildReplySystemPrompt(input ReplyInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s, a friendly and knowledgeable dining assistant. ", assistantName)
	sb.WriteString("You help users discover restaurants through natural conversation and can make reservations by calling restaurants.\n\n")
	sb.WriteString("## Capabilities:\n\n")
	sb.WriteString("- Understand user preferences through conversation\n")
	sb.WriteString("- Ask follow-up questions to refine choices\n")
	sb.WriteString("- Recommend restaurants with reasoning\n")
	sb.WriteString("- Handle nuanced requests like \"romantic but not expensive\"\n")
	sb.WriteString("- Arrange reservations via phone calls\n\n")
	sb.WriteString("## User context:\n\n")
	writePreferences(&sb, input.Location, input.Preferences)
	sb.WriteString("\n## Guidelines:\n\n")
	sb.WriteString("- Be conversational and friendly\n")
	sb.WriteString("- Ask clarifying questions when needed\n")
	sb.WriteString("- Offer to call restaurants for reservations\n")
	sb.WriteString("- Keep responses concise\n")

	return sb.String()
}

func buildReplyUserPrompt(input ReplyInput) string {
	var sb strings.Builder

	sb.WriteString("## Conversation:\n\n")
	writeHistory(&sb, input.History)
	sb.WriteString("\nRespond to the last user message as the assistant. Reply with the message text only.\n")

	return sb.String()
}

func buildCallScriptSystemPrompt() string {
	return "Generate a natural phone conversation script for making a restaurant reservation. " +
		"A voice agent will follow this script when calling the restaurant. " +
		"Also list likely responses from the restaurant and alternative approaches if the request cannot be met."
}

func buildCallScriptUserPrompt(input CallScriptInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Restaurant: %s\n", input.Restaurant.Name)
	if input.Restaurant.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", input.Restaurant.Address)
	}
	sb.WriteString("\n## Reservation details:\n\n")
	fmt.Fprintf(&sb, "- Date: %s\n", input.Details.Date)
	fmt.Fprintf(&sb, "- Time: %s\n", input.Details.Time)
	fmt.Fprintf(&sb, "- Party size: %d\n", input.Details.PartySize)
	if input.Details.SpecialRequests != "" {
		fmt.Fprintf(&sb, "- Special requests: %s\n", input.Details.SpecialRequests)
	}
	if input.User != nil {
		fmt.Fprintf(&sb, "- Guest name: %s\n", input.User.Username)
	}
	sb.WriteString("\nGenerate a polite, professional call script for making this reservation.\n")

	return sb.String()
}
