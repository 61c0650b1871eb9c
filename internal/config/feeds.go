package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// feedsFile is the YAML shape of the feeds configuration file:
//
//	feeds:
//	  - name: TechCrunch
//	    url: https://techcrunch.com/feed/
//	    kind: news
type feedsFile struct {
	Feeds []entity.FeedSource `yaml:"feeds"`
}

// LoadFeeds reads feed sources from the YAML file at path, or returns the
// built-in list when path is empty. Every entry is validated; a bad entry
// fails the whole load so a typo cannot silently drop a feed.
func LoadFeeds(path string) ([]entity.FeedSource, error) {
	if path == "" {
		return DefaultFeeds(), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read feeds file %s: %w", path, err)
	}

	var file feedsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s defines no feeds", path)
	}

	for i := range file.Feeds {
		if err := file.Feeds[i].Validate(); err != nil {
			return nil, fmt.Errorf("feeds file %s entry %d: %w", path, i, err)
		}
	}

	return file.Feeds, nil
}

// DefaultFeeds returns the built-in source list used when no feeds file is
// configured.
func DefaultFeeds() []entity.FeedSource {
	return []entity.FeedSource{
		{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml", Kind: entity.KindNews},
		{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Kind: entity.KindNews},
		{Name: "NY Times Technology", URL: "https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml", Kind: entity.KindNews},
		{Name: "Wired", URL: "https://www.wired.com/feed/", Kind: entity.KindNews},
		{Name: "Science Daily AI", URL: "https://www.sciencedaily.com/rss/computers_math/artificial_intelligence.xml", Kind: entity.KindNews},
		{Name: "The AI Daily Brief", URL: "https://anchor.fm/s/f7cac464/podcast/rss", Kind: entity.KindPodcast},
		{Name: "AI News in 5 Minutes or Less", URL: "https://feeds.transistor.fm/ai-news-in-5-minutes-or-less", Kind: entity.KindPodcast},
		{Name: "AI Lawyer Talking Tech", URL: "https://anchor.fm/s/d9c4eb70/podcast/rss", Kind: entity.KindPodcast},
	}
}
