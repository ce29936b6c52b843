package agent

import (
	"fmt"
	"strings"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/types"
)

// toneDirectives maps configured tone values to prompt instructions.
// Unrecognized tones are silently omitted.
var toneDirectives = map[string]string{
	"friendly":     "Use a warm, friendly and approachable tone.",
	"professional": "Use a professional, courteous and precise tone.",
	"casual":       "Use a relaxed, casual and conversational tone.",
	"formal":       "Use a formal and respectful tone.",
	"enthusiastic": "Use an upbeat, enthusiastic tone.",
	"empathetic":   "Use an empathetic and understanding tone.",
}

// languageNames covers the language codes the dashboard offers; anything else
// falls back to the raw code in the directive.
var languageNames = map[string]string{
	"es": "Spanish",
	"pt": "Portuguese",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"nl": "Dutch",
	"ar": "Arabic",
	"hi": "Hindi",
	"id": "Indonesian",
}

// BuildSystemPrompt assembles the system prompt from an agent configuration.
// Section order is fixed; empty sections are omitted.
func BuildSystemPrompt(cfg *types.AgentConfig) string {
	var sections []string

	// Identity
	identity := "You are a helpful customer support assistant"
	if cfg.Profile.Name != "" {
		identity = fmt.Sprintf("You are %s, a customer support assistant", cfg.Profile.Name)
	}
	if cfg.Profile.Industry != "" {
		identity += fmt.Sprintf(" for a business in the %s industry", cfg.Profile.Industry)
	}
	identity += ", replying to customers on WhatsApp."
	sections = append(sections, identity)

	if cfg.Profile.BusinessDescription != "" {
		sections = append(sections, "About the business: "+cfg.Profile.BusinessDescription)
	}

	if directive, ok := toneDirectives[strings.ToLower(cfg.Profile.Tone)]; ok {
		sections = append(sections, directive)
	}

	if lang := strings.ToLower(cfg.Profile.Language); lang != "" && lang != "en" {
		name, ok := languageNames[lang]
		if !ok {
			name = cfg.Profile.Language
		}
		sections = append(sections, fmt.Sprintf("Always respond in %s.", name))
	}

	if len(cfg.Prompt.Goals) > 0 {
		sections = append(sections, "Your goals:\n"+bulletList(cfg.Prompt.Goals))
	}

	if len(cfg.Prompt.Constraints) > 0 {
		sections = append(sections, "Constraints you must follow:\n"+bulletList(cfg.Prompt.Constraints))
	}

	if cfg.Prompt.CustomInstructions != "" {
		sections = append(sections, cfg.Prompt.CustomInstructions)
	}

	if cfg.Behavior.CaptureContactInfo {
		sections = append(sections, "When appropriate, politely ask the customer for their name and email address so the team can follow up.")
	}

	if len(cfg.Knowledge.FAQs) > 0 {
		var b strings.Builder
		b.WriteString("Frequently asked questions:")
		for _, faq := range cfg.Knowledge.FAQs {
			b.WriteString(fmt.Sprintf("\nQ: %q\nA: %q", faq.Question, faq.Answer))
		}
		sections = append(sections, b.String())
	}

	if cfg.Knowledge.Policies != "" {
		sections = append(sections, "Business policies:\n"+cfg.Knowledge.Policies)
	}

	return strings.Join(sections, "\n\n")
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + item)
	}
	return b.String()
}
