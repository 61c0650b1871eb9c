package entity

// DigestItem pairs a content item with its generated summary bullets.
type DigestItem struct {
	Item    ContentItem
	Bullets []string
}

// ToolSpotlight is a featured AI tool block in the digest, either extracted
// from a summarized article or generated independently as a fallback.
type ToolSpotlight struct {
	Name        string
	Description string
	Link        string
}

// DigestStats carries run statistics reported alongside the digest.
// ErrorCount counts true failures only; clean skips (no content, already
// processed, no summary produced) are not errors.
type DigestStats struct {
	NewsCount    int
	PodcastCount int
	ErrorCount   int
}

// DigestBatch is the bounded output of a single pipeline run. News and
// podcast items are kept in the order their summarization completed.
// The batch is created fresh per run, handed to the output sink, and
// discarded afterwards.
type DigestBatch struct {
	News     []DigestItem
	Podcasts []DigestItem
	Tip      string
	Tool     *ToolSpotlight
	Stats    DigestStats
}

// NewDigestBatch returns an empty batch ready to accumulate into.
func NewDigestBatch() *DigestBatch {
	return &DigestBatch{}
}

// AddNews appends a summarized news item in completion order.
func (d *DigestBatch) AddNews(item ContentItem, bullets []string) {
	d.News = append(d.News, DigestItem{Item: item, Bullets: bullets})
	d.Stats.NewsCount++
}

// AddPodcast appends a summarized podcast episode in completion order.
func (d *DigestBatch) AddPodcast(item ContentItem, bullets []string) {
	d.Podcasts = append(d.Podcasts, DigestItem{Item: item, Bullets: bullets})
	d.Stats.PodcastCount++
}

// SetTip sets the tip-of-the-day text.
func (d *DigestBatch) SetTip(tip string) {
	d.Tip = tip
}

// SetTool sets the tool spotlight. The first spotlight wins; later calls
// are ignored so an article-extracted tool takes precedence over fallback
// generation.
func (d *DigestBatch) SetTool(tool *ToolSpotlight) {
	if d.Tool == nil && tool != nil {
		d.Tool = tool
	}
}

// RecordError increments the error counter for a true failure.
func (d *DigestBatch) RecordError() {
	d.Stats.ErrorCount++
}

// Empty reports whether the batch carries no summarized content at all.
// A batch with only a tip or spotlight still counts as empty for emission
// decisions made by the sink.
func (d *DigestBatch) Empty() bool {
	return len(d.News) == 0 && len(d.Podcasts) == 0
}
