package utils

import (
	"html/template"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCommentCacheSize = 500

// CommentCache keeps rendered comment HTML by comment id. Comments are never
// edited, so entries do not expire.
type CommentCache struct {
	lruCache *lru.Cache[uint, template.HTML]
}

func NewCommentCache(size int) (*CommentCache, error) {
	if size <= 0 {
		size = DefaultCommentCacheSize
	}
	l, err := lru.New[uint, template.HTML](size)
	if err != nil {
		return nil, err
	}
	return &CommentCache{lruCache: l}, nil
}

// Render returns the cached HTML for id, rendering text on a miss.
func (c *CommentCache) Render(id uint, text string) template.HTML {
	if html, ok := c.lruCache.Get(id); ok {
		return html
	}
	html := RenderMarkdown(text)
	c.lruCache.Add(id, html)
	return html
}

// Forget drops the entries for ids, used when their post is deleted.
func (c *CommentCache) Forget(ids ...uint) {
	for _, id := range ids {
		c.lruCache.Remove(id)
	}
}

