package news

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

func rssBody(name string, count int) string {
	items := ""
	for i := 0; i < count; i++ {
		items += fmt.Sprintf(`
		<item>
			<title>%s story %d</title>
			<link>https://example.com/%s/%d</link>
			<description>summary %d</description>
			<pubDate>Wed, 26 Aug 2026 08:00:00 GMT</pubDate>
		</item>`, name, i, name, i, i)
	}
	return fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`, name, items)
}

func TestRSSFetch_MergesFeedsRoundRobin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alpha", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("alpha", 3))
	})
	mux.HandleFunc("/beta", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("beta", 3))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feeds := []FeedConfig{
		{Name: "Alpha", URL: srv.URL + "/alpha", Category: model.CategoryAI},
		{Name: "Beta", URL: srv.URL + "/beta", Category: model.CategoryWeb3},
	}
	collector := NewRSSCollector(feeds, 4, 5*time.Second)

	items, err := collector.Fetch()

	assert.Equal(t, nil, err)
	assert.Equal(t, 4, len(items))

	// round-robin: feeds alternate instead of the first one taking all slots
	assert.Equal(t, "Alpha", items[0].Source)
	assert.Equal(t, "Beta", items[1].Source)
	assert.Equal(t, "Alpha", items[2].Source)
	assert.Equal(t, "Beta", items[3].Source)

	assert.Equal(t, model.CategoryAI, items[0].Category)
	assert.Equal(t, "alpha story 0", items[0].Title)
	assert.Equal(t, "https://example.com/alpha/0", items[0].URL)
	assert.Equal(t, "summary 0", items[0].Summary)
	assert.Equal(t, 2026, items[0].PublishedAt.Year())
}

func TestRSSFetch_BrokenFeedSkipped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("good", 2))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not xml")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feeds := []FeedConfig{
		{Name: "Broken", URL: srv.URL + "/broken", Category: model.CategoryGeneral},
		{Name: "Good", URL: srv.URL + "/good", Category: model.CategoryGeneral},
	}
	collector := NewRSSCollector(feeds, 10, 5*time.Second)

	items, err := collector.Fetch()

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "Good", items[0].Source)
}

func TestCompactText(t *testing.T) {
	assert.Equal(t, "a b c", compactText("  a\n b \t c ", 50))

	long := compactText("0123456789", 5)
	assert.Equal(t, 5, len([]rune(long)))
	assert.Equal(t, "0123…", long)
}
