package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct {
	content *repository.ContentStore
	siteURL string
}

func NewSEOHandler(content *repository.ContentStore, siteURL string) *SEOHandler {
	return &SEOHandler{content: content, siteURL: strings.TrimRight(siteURL, "/")}
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /login
Disallow: /register
Disallow: /logout
Disallow: /new-post
Disallow: /edit-post/
Disallow: /delete/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the home page, the static pages and every post.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	posts, err := h.content.ListPosts(c.Request.Context())
	if err != nil {
		ServerError(c, err)
		return
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.siteURL + "/", ChangeFreq: "daily", Priority: "1.0"},
			{Loc: h.siteURL + "/about", ChangeFreq: "monthly", Priority: "0.5"},
			{Loc: h.siteURL + "/contact", ChangeFreq: "monthly", Priority: "0.5"},
		},
	}
	for _, post := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + "/post/" + strconv.FormatUint(uint64(post.ID), 10),
			LastMod:    lastMod(post.Date),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		ServerError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// lastMod converts a post date into the W3C date sitemaps expect.
func lastMod(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
