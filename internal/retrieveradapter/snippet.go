package retrieveradapter

import (
	"context"
	"strings"

	"github.com/prasannaarjun/multihop-research-agent/internal/persistence/databases"
)

// SnippetOptions controls snippet generation.
type SnippetOptions struct {
	Lang  string
	Query string
}

// GenerateSnippets fills in Snippet for items that don't already have one,
// centering a text window on the query's first keyword hit. It loads full
// text from the search backend when a fused candidate didn't carry it.
// Items are updated in place; the slice is returned for chaining.
func GenerateSnippets(ctx context.Context, search databases.FullTextSearch, items []RetrievedItem, opt SnippetOptions) []RetrievedItem {
	for i := range items {
		if items[i].Snippet != "" {
			continue
		}
		if items[i].Text == "" && search != nil {
			if doc, ok, _ := search.GetByID(ctx, items[i].ID); ok {
				items[i].Text = doc.Text
			}
		}
		items[i].Snippet = simpleSnippet(items[i].Text, opt.Query)
	}
	return items
}

const snippetWindow = 160

// simpleSnippet returns a fixed-width window of text centered on the first
// occurrence of the query (or its first term), falling back to the leading
// snippetWindow characters when no match is found.
func simpleSnippet(text, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if text == "" || q == "" {
		return headSnippet(text)
	}

	lt := strings.ToLower(text)
	idx := strings.Index(lt, q)
	if idx == -1 {
		for _, term := range strings.Fields(q) {
			if term == "" {
				continue
			}
			if i := strings.Index(lt, term); i != -1 {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		return headSnippet(text)
	}

	half := snippetWindow / 2
	start := idx - half
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(text) {
		end = len(text)
		if end-snippetWindow > 0 {
			start = end - snippetWindow
		}
	}
	return text[start:end]
}

func headSnippet(text string) string {
	if len(text) > snippetWindow {
		return text[:snippetWindow]
	}
	return text
}
