package filter

// Rule tables for the relevance classifier. These are policy data, not
// structure: tuning which phrases count as strong or weak signals does not
// change the cascade in classifier.go.

// allowlistSources are feeds whose items are always AI-related, bypassing
// every other rule including exclusions.
var allowlistSources = map[string]struct{}{
	"Science Daily AI":                       {},
	"Daily AI":                               {},
	"MarkTechPost":                           {},
	"AI News - Artificial Intelligence News": {},
	"BAIR Blog - Berkeley AI Research":       {},
	"AI Business":                            {},
	"The AI Daily Brief":                     {},
	"AI News in 5 Minutes or Less":           {},
	"AI Lawyer Talking Tech":                 {},
	"The Neuron":                             {},
}

// exclusionPairs hard-exclude an item when BOTH terms appear anywhere in
// the combined title+description. Each pair captures a recurring false
// positive category (product roundups, consumer-gadget reviews, gaming
// showcases) that mentions AI only incidentally.
var exclusionPairs = [][2]string{
	{"treadmill", "walking pad"},
	{"treadmill", "review"},
	{"walking pad", "best"},
	{"headphone", "review"},
	{"laptop", "review"},
	{"smartphone", "review"},
	{"speaker", "review"},
	{"gaming console", "review"},
	{"indie", "showcase"},
	{"nintendo", "switch"},
	{"streaming service", "subscription"},
	{"cable tv", "broadband"},
	{"vpn", "deal"},
	{"satellite", "bluetooth"},
}

// legalKeywords mark legal/privacy-incident coverage. Such titles are
// excluded unless a primary keyword also appears in the title, so genuine
// AI litigation news still passes.
var legalKeywords = []string{
	"lawsuit",
	"sues",
	"sued",
	"jury",
	"class action",
	"data breach",
	"settlement",
	"verdict",
}

// primaryKeywords are high-confidence signals: a single match in the title
// or the leading slice of the description is decisive.
var primaryKeywords = []string{
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"neural network",
	"large language model",
	"llm",
	"generative ai",
	"genai",
	"openai",
	"chatgpt",
	"gpt-",
	"claude",
	"anthropic",
	"gemini",
	"copilot",
	"midjourney",
	"stable diffusion",
	"dall-e",
	"perplexity",
	"hugging face",
	"llama",
	"mistral",
	"deepmind",
	"ai model",
	"ai chip",
	"ai safety",
	"ai agent",
	"ai startup",
	"ai research",
	"agi",
	"prompt engineering",
	"fine-tuning",
	"vector database",
	"retrieval augmented",
}

// contextPhrases are action phrasings that make a generic AI mention
// newsworthy (a launch or product move rather than a passing reference).
var contextPhrases = []string{
	"launches ai",
	"launched ai",
	"unveils ai",
	"unveiled ai",
	"introduces ai",
	"announces ai",
	"debuts ai",
	"releases ai",
	"rolls out ai",
	"ai features in",
	"powered by ai",
	"built on ai",
}

// secondaryKeywords are weak signals. One alone proves nothing ("model",
// "training" and "bot" saturate generic tech copy); two or more together
// shift the odds enough to include.
var secondaryKeywords = []string{
	"algorithm",
	"data science",
	"automation",
	"chatbot",
	"bot",
	"cognitive",
	"prediction",
	"model",
	"training",
	"inference",
	"robotics",
	"autonomous",
	"computer vision",
	"nlp",
	"natural language processing",
	"embeddings",
	"transformer",
}

// contextTopics are words that only matter with corroboration: a company
// or theme that hosts a lot of AI coverage but plenty of non-AI coverage
// too. They count only alongside at least one secondary keyword.
var contextTopics = []string{
	"nvidia",
	"meta",
	"google",
	"microsoft",
	"privacy",
	"research",
	"regulation",
	"semiconductor",
}

// titleEntities are well-known AI products and companies. Their presence
// in a title is enough on its own, as a last resort after every weaker
// accumulation stage has failed.
var titleEntities = []string{
	"openai",
	"anthropic",
	"deepmind",
	"chatgpt",
	"claude",
	"gemini",
	"copilot",
	"midjourney",
	"perplexity",
	"hugging face",
	"stability ai",
	"mistral",
	"cohere",
	"xai",
	"grok",
	"nvidia",
	"waymo",
}
