package retrieveradapter

import (
	"context"

	"github.com/prasannaarjun/multihop-research-agent/internal/persistence/databases"
)

// AttachDocMetadata fills in each item's DocID and citation metadata
// (title/URL). It first checks the chunk's own metadata, then falls back to
// loading the parent document row when the search backend supports it.
func AttachDocMetadata(ctx context.Context, search databases.FullTextSearch, items []RetrievedItem) []RetrievedItem {
	for i := range items {
		items[i].DocID = deriveDocID(items[i].ID, items[i].Metadata)

		if items[i].Metadata != nil {
			if t, ok := items[i].Metadata["title"]; ok {
				items[i].Doc.Title = t
			}
			if u, ok := items[i].Metadata["url"]; ok {
				items[i].Doc.URL = u
			}
		}

		if search == nil || (items[i].Doc.Title != "" || items[i].Doc.URL != "") {
			continue
		}
		docID := items[i].DocID
		if docID == "" {
			continue
		}
		doc, ok, _ := search.GetByID(ctx, docID)
		if !ok || doc.Metadata == nil {
			continue
		}
		if t, ok := doc.Metadata["title"]; ok {
			items[i].Doc.Title = t
		}
		if u, ok := doc.Metadata["url"]; ok {
			items[i].Doc.URL = u
		}
	}
	return items
}
