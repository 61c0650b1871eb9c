package entity

import (
	"testing"
	"time"
)

func TestSourceKind_Valid(t *testing.T) {
	tests := []struct {
		name string
		kind SourceKind
		want bool
	}{
		{"news", KindNews, true},
		{"podcast", KindPodcast, true},
		{"empty", SourceKind(""), false},
		{"unknown", SourceKind("video"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeedSource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		source  FeedSource
		wantErr bool
	}{
		{
			name:    "valid news feed",
			source:  FeedSource{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Kind: KindNews},
			wantErr: false,
		},
		{
			name:    "valid podcast feed",
			source:  FeedSource{Name: "The AI Daily Brief", URL: "https://anchor.fm/s/f7cac464/podcast/rss", Kind: KindPodcast},
			wantErr: false,
		},
		{
			name:    "missing name",
			source:  FeedSource{URL: "https://example.com/rss", Kind: KindNews},
			wantErr: true,
		},
		{
			name:    "missing url",
			source:  FeedSource{Name: "Wired", Kind: KindNews},
			wantErr: true,
		},
		{
			name:    "invalid kind",
			source:  FeedSource{Name: "Wired", URL: "https://www.wired.com/feed/", Kind: SourceKind("blog")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContentKey(t *testing.T) {
	url := "https://example.com/article"

	key := ContentKey(url)
	if len(key) != 64 {
		t.Errorf("ContentKey() length = %d, want 64 hex chars", len(key))
	}

	// Stable across calls
	if ContentKey(url) != key {
		t.Error("ContentKey() is not deterministic")
	}

	// Distinct URLs produce distinct keys
	if ContentKey("https://example.com/other") == key {
		t.Error("ContentKey() collision for distinct URLs")
	}
}

func TestDigestBatch_Accumulate(t *testing.T) {
	batch := NewDigestBatch()
	if !batch.Empty() {
		t.Fatal("new batch should be empty")
	}

	item := ContentItem{
		Title:       "OpenAI releases GPT-5",
		URL:         "https://example.com/gpt5",
		SourceName:  "TechCrunch",
		SourceKind:  KindNews,
		PublishedAt: time.Now(),
	}

	batch.AddNews(item, []string{"first bullet", "second bullet"})
	batch.AddPodcast(ContentItem{Title: "Episode 42", SourceKind: KindPodcast}, []string{"takeaway"})

	if batch.Empty() {
		t.Error("batch with items reported as empty")
	}
	if batch.Stats.NewsCount != 1 || batch.Stats.PodcastCount != 1 {
		t.Errorf("stats = %+v, want news=1 podcasts=1", batch.Stats)
	}
	if len(batch.News[0].Bullets) != 2 {
		t.Errorf("bullets = %d, want 2", len(batch.News[0].Bullets))
	}
}

func TestDigestBatch_SetTool_FirstWins(t *testing.T) {
	batch := NewDigestBatch()

	batch.SetTool(&ToolSpotlight{Name: "Cursor", Description: "AI code editor", Link: "https://cursor.com"})
	batch.SetTool(&ToolSpotlight{Name: "Other", Description: "later tool", Link: "https://example.com"})

	if batch.Tool == nil || batch.Tool.Name != "Cursor" {
		t.Errorf("Tool = %+v, want first spotlight to win", batch.Tool)
	}
}

func TestDigestBatch_RecordError(t *testing.T) {
	batch := NewDigestBatch()
	batch.RecordError()
	batch.RecordError()

	if batch.Stats.ErrorCount != 2 {
		t.Errorf("ErrorCount = %d, want 2", batch.Stats.ErrorCount)
	}
}
