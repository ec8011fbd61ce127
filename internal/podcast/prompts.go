package podcast

import (
	"fmt"
	"strings"

	"news_podcast/internal/models"
)

const writerSystemPrompt = "You are a professional podcast script writer who creates engaging, conversational content."

const researcherSystemPrompt = "You are a research assistant that provides concise summaries of academic topics. " +
	"Focus on recent developments, key findings, and implications."

const scriptRules = `The script should be in a conversational format between two hosts, Host A and Host B.
Make it engaging and include 1-2 sentences of analysis or implications for each major point.
Format the output as a script with clear speaker labels. Format the script with no markdown.
Have the first line be "Host A" that will be describing the title and whats happening. When a Host is going to speak
about the other host, use "Edward" for host A and "Mark" for host B.`

// articlesContent renders articles as Title/Description/Content blocks.
func articlesContent(articles []models.Article) string {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nDescription: %s\nContent: %s", a.Title, a.Description, a.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func summaryPrompt(articles []models.Article, category string) string {
	return fmt.Sprintf(`Create a 30 seconds - 1 minute podcast script (50-100 words), not including the title and description and host names. The word count will be base on what the host says.
summarizing the following news articles about %s.
%s
Articles to summarize:
%s

Please provide a natural, engaging conversation that flows well and maintains listener interest.
`, category, scriptRules, articlesContent(articles))
}

func researchPrompt(topic string) string {
	return fmt.Sprintf("Provide a brief summary of recent research and developments about %s.", topic)
}

// fallbackResearch stands in for the research summary when the researcher is
// unavailable.
func fallbackResearch(topic string) string {
	return fmt.Sprintf("While we couldn't fetch recent research, here's what we know about %s: "+
		"It's a topic of ongoing study with various implications across different fields.", topic)
}

func explorationPrompt(topic, research string) string {
	return fmt.Sprintf(`Create a 30 seconds - 1 minute podcast script (50-100 words), not including the title and description and host names. The word count will be base on what the host says.
exploring recent research and developments about %s.
%s
Research to discuss:
Title: %s
Abstract: %s

Please provide a natural, engaging conversation that flows well and maintains listener interest.
`, topic, scriptRules, topic, research)
}
