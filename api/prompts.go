package main

import (
	"fmt"
	"strings"

	"github.com/forkcast/forkcast/models"
)

var NarratorSysPrompt = `You are a restaurant recommendation assistant.
Rules:
- Do not use Markdown.
- Do not invent information.
- Use simple natural language.
- Only use the details given to you.
- Do not create details that are not given to you.`

// emptyResultsReply is returned without consulting the model when the
// candidate set is empty.
const emptyResultsReply = "Sorry, I couldn't find any restaurants nearby."

// buildNarrativePrompt lays out the user's craving and the ranked results
// for the model. Only fields present in the results are surfaced, so the
// model has nothing to invent.
func buildNarrativePrompt(query string, results []models.ScoredCandidate) string {
	var prompt strings.Builder

	prompt.WriteString("I want food like: '" + query + "'.\n\n")
	prompt.WriteString("Here are nearby restaurants:\n")

	for _, r := range results {
		fmt.Fprintf(&prompt, "- %s (%s), %.1f km away, opening hours: %s, match score %.2f\n",
			r.Name, r.Cuisine, r.DistanceKm, r.OpeningHours, r.FinalScore)
	}

	prompt.WriteString("\nSelect the best 3 options and explain why each was chosen.\n")
	prompt.WriteString("Do not add details that are not included above.")

	return prompt.String()
}
