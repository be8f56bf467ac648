package models

import "strings"

// UnknownAuthor is the sentinel shown until the user fills the author in.
const UnknownAuthor = "Unknown"

// BookRecord is the durable form of one shelf entry.
//
// Drafts produced by the extraction pipeline use the same shape; they only
// become durable once the client posts them to /collection.
type BookRecord struct {
	ID       string `json:"id"`                 // caller-assigned, immutable
	Title    string `json:"title"`              // non-empty
	Author   string `json:"author"`             // "Unknown" until edited
	Year     string `json:"year"`               // free text, may be empty
	CoverURL string `json:"coverUrl,omitempty"` // data URI or empty
	AddedAt  int64  `json:"dateAdded"`          // epoch millis, set once at creation
}

// BookPatch is a partial update. Nil fields were absent from the request
// and must leave the stored value untouched. ID and AddedAt are not
// patchable.
type BookPatch struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Year     *string `json:"year"`
	CoverURL *string `json:"coverUrl"`
}

// IsZero reports whether the patch carries no fields at all.
func (p BookPatch) IsZero() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil && p.CoverURL == nil
}

// Merge applies a patch to a stored record. Both storage engines share this
// coalesce so partial-update semantics cannot drift between them.
func Merge(old BookRecord, p BookPatch) BookRecord {
	out := old
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Author != nil {
		out.Author = *p.Author
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.CoverURL != nil {
		out.CoverURL = *p.CoverURL
	}
	return out
}

// Normalize trims display fields and fills the author sentinel.
func (b *BookRecord) Normalize() {
	b.ID = strings.TrimSpace(b.ID)
	b.Title = strings.TrimSpace(b.Title)
	if strings.TrimSpace(b.Author) == "" {
		b.Author = UnknownAuthor
	}
}
