package source

// Source kinds determine which scraper processes the fetched page.
const (
	KindRSS  = "rss"
	KindHTML = "html"
)

type Config struct {
	Name           string         // Derived from filename (without .yml extension)
	URL            string         `yaml:"url"`
	Kind           string         `yaml:"kind"` // rss or html
	Settings       ConfigSettings `yaml:"settings"`
	Scrape         ConfigScrape   `yaml:"scrape"`
	ExtraStopwords []string       `yaml:"extra_stopwords"`
}

type ConfigSettings struct {
	Enabled          bool `yaml:"enabled"`
	RefreshInterval  int  `yaml:"refresh_interval"` // seconds
	MaxItems         int  `yaml:"max_items"`
	Timeout          int  `yaml:"timeout"` // seconds
	ExtractSummaries bool `yaml:"extract_summaries"`
}

// ConfigScrape holds the CSS selectors used by the HTML scraper. Ignored for
// RSS sources.
type ConfigScrape struct {
	ItemSelector    string `yaml:"item_selector"`
	TitleSelector   string `yaml:"title_selector"`
	LinkSelector    string `yaml:"link_selector"`
	SummarySelector string `yaml:"summary_selector"`
}
