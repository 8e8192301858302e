package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-agency-site/internal/data"
	"go-agency-site/internal/logger"
	"go-agency-site/internal/service"
)

// SEOHandler serves robots.txt, the sitemap, and the blog RSS feed.
type SEOHandler struct {
	blog    *service.BlogService
	baseURL string
	log     logger.Logger
}

// NewSEOHandler creates a new SEOHandler. baseURL is the public origin of
// the site, without a trailing slash.
func NewSEOHandler(blog *service.BlogService, baseURL string, log logger.Logger) *SEOHandler {
	return &SEOHandler{blog: blog, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

func (h *SEOHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *SEOHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	urlSet := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range []string{"/", "/about", "/pricing", "/contact", "/blog"} {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{Loc: h.baseURL + path})
	}

	posts, err := h.blog.ListPublished(r.Context(), service.CategoryAll, "")
	if err != nil {
		h.log.Error(err, "Failed to load posts for sitemap")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	for _, p := range posts {
		u := sitemapURL{Loc: h.baseURL + "/blog/" + p.Slug}
		if p.PublishedAt != nil {
			u.LastMod = p.PublishedAt.Format("2006-01-02")
		}
		urlSet.URLs = append(urlSet.URLs, u)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(urlSet); err != nil {
		h.log.Error(err, "Failed to encode sitemap")
	}
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

func (h *SEOHandler) feedHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPublished(r.Context(), service.CategoryAll, "")
	if err != nil {
		h.log.Error(err, "Failed to load posts for feed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "Blog",
			Link:        h.baseURL + "/blog",
			Description: "Latest articles on digital marketing, advertising, and web design.",
		},
	}
	for _, p := range feedItems(posts) {
		item := rssItem{
			Title:       p.Title,
			Link:        h.baseURL + "/blog/" + p.Slug,
			GUID:        h.baseURL + "/blog/" + p.Slug,
			Description: p.Excerpt,
			Category:    p.Category,
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		h.log.Error(err, "Failed to encode feed")
	}
}

const feedLimit = 20

func feedItems(posts []*data.Post) []*data.Post {
	if len(posts) > feedLimit {
		return posts[:feedLimit]
	}
	return posts
}
