package summarizer

import (
	"fmt"
	"math/rand"
)

// Prompts steer the model toward bullet output that parseBullets can
// consume. Keep the "• " instruction in sync with the parser.

const articleSystemPrompt = `You are an AI news summarizer for a business audience. Your task is to:
1. Identify and highlight AI-related content within the provided article
2. Create 3-5 concise bullet points summarizing the key information
3. Focus on practical implications, business relevance, and why it matters
4. Avoid highly technical jargon unless necessary
5. If the article is not related to AI, still summarize but note the general tech relevance

Format: Return ONLY bullet points, one per line, starting with "• ".`

const podcastSystemPrompt = `You are an AI podcast summarizer. Your task is to:
1. Extract key topics and themes from the podcast description
2. Create 3-5 concise bullet points highlighting what listeners will learn
3. Focus on AI insights, practical applications, and key takeaways
4. Make it compelling for a business audience

Format: Return ONLY bullet points, one per line, starting with "• ".`

const toolExtractSystemPrompt = `You identify AI tools and products mentioned in news articles.
If the article introduces or substantially discusses a specific AI tool, product,
or service that a business professional could try, respond with a single JSON
object and nothing else:
{"name": "<tool name>", "description": "<one sentence on what it does and who it helps>", "link": "<tool URL if stated in the article, otherwise an empty string>"}
Only include a link that appears in the article text. If the article does not
feature a usable tool, respond with the single word NONE.`

const toolGenerateSystemPrompt = `You recommend AI tools to business professionals.
Pick one established, currently available AI tool that helps with everyday work
(writing, research, meetings, coding, data analysis). Respond with a single JSON
object and nothing else:
{"name": "<tool name>", "description": "<one sentence on what it does and who it helps>", "link": "<the tool's official URL>"}
Use the tool's real official URL.`

// tipTopics rotate daily so consecutive digests do not repeat themselves.
var tipTopics = []string{
	"practical AI usage in daily work",
	"prompt engineering best practices",
	"understanding AI capabilities and limitations",
	"AI ethics and responsible use",
	"AI tools for productivity",
	"demystifying AI concepts",
	"AI in business decision-making",
	"future of work with AI",
	"AI collaboration strategies",
	"data privacy and AI",
}

func articleUserPrompt(title, content string, limit int) string {
	return fmt.Sprintf(`Article Title: %s

Article Content:
%s

Please summarize this article in 3-5 bullet points, focusing on AI-related aspects and business relevance.`,
		title, truncate(content, limit))
}

func podcastUserPrompt(title, description string, limit int) string {
	return fmt.Sprintf(`Podcast Episode: %s

Description:
%s

Please summarize this podcast episode in 3-5 bullet points, focusing on key AI insights and takeaways.`,
		title, truncate(description, limit))
}

func tipSystemPrompt(topic string) string {
	return fmt.Sprintf(`You are an AI educator creating daily tips for business professionals.
Create a clear, practical, and engaging AI tip about: %s

Requirements:
- Keep it between 150-300 characters (1-2 sentences)
- Make it immediately actionable with a specific technique or tool
- Use simple, clear language without jargon
- Include a concrete example or specific use case
- Focus on practical value for everyday work
- Be encouraging and positive about AI adoption

Good example: "Try the '5W1H' prompt technique: Start your AI requests with Who, What, When, Where, Why, or How for clearer responses."
Bad example: "AI can help with many tasks in various ways across different domains."`, topic)
}

const tipUserPrompt = "Generate today's AI tip for business professionals."

func toolExtractUserPrompt(title, content string, limit int) string {
	return fmt.Sprintf(`Article Title: %s

Article Content:
%s

Does this article feature a specific AI tool worth spotlighting? Respond with the JSON object or NONE.`,
		title, truncate(content, limit))
}

// pickTipTopic selects a topic at random per call.
func pickTipTopic() string {
	return tipTopics[rand.Intn(len(tipTopics))]
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 rune.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
