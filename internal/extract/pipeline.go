package extract

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelfscan/pkg/models"
)

// Sample tables for the fallback generator. Parallel slices: the same index
// must be used for title and author.
var (
	sampleTitles = []string{
		"The Great Gatsby", "1984", "Clean Code", "The Pragmatic Programmer",
		"Dune", "Project Hail Mary", "Sapiens",
	}
	sampleAuthors = []string{
		"F. Scott Fitzgerald", "George Orwell", "Robert C. Martin",
		"Andy Hunt", "Frank Herbert", "Andy Weir", "Yuval Noah Harari",
	}
)

// DefaultFallbackDelay approximates a real recognition round trip so client
// timing looks the same in both modes.
const DefaultFallbackDelay = 2 * time.Second

// Pipeline turns one image into zero or more in-memory draft records. It
// never writes to the store.
type Pipeline struct {
	Vision        *VisionClient // nil when no recognition credential is configured
	FallbackDelay time.Duration
}

func NewPipeline(vision *VisionClient) *Pipeline {
	return &Pipeline{Vision: vision, FallbackDelay: DefaultFallbackDelay}
}

// Process produces drafts for one image. The bool reports that the fallback
// generator ran instead of real recognition; the caller surfaces that as a
// warning. The fallback branch is picked before any network attempt when no
// client is configured, so both paths stay symmetric.
func (p *Pipeline) Process(ctx context.Context, image []byte, mimeType string) ([]models.BookRecord, bool, error) {
	uri := DataURI(mimeType, image)

	if p.Vision == nil {
		drafts, err := p.fallback(ctx, uri)
		return drafts, true, err
	}

	text, err := p.Vision.DetectText(ctx, image)
	if err != nil {
		log.Printf("[extract] recognition failed, using fallback: %v", err)
		drafts, ferr := p.fallback(ctx, uri)
		return drafts, true, ferr
	}

	chunks := SplitCandidates(text)
	if len(chunks) == 0 {
		return []models.BookRecord{}, false, nil
	}

	now := time.Now().UnixMilli()
	drafts := make([]models.BookRecord, 0, len(chunks))
	for _, chunk := range chunks {
		drafts = append(drafts, models.BookRecord{
			ID:       uuid.NewString(),
			Title:    chunk,
			Author:   models.UnknownAuthor,
			Year:     "",
			CoverURL: uri,
			AddedAt:  now,
		})
	}
	return drafts, false, nil
}

// SplitCandidates segments a recognized text blob into candidate titles:
// split on commas and newlines, trim, drop chunks shorter than 3 characters,
// dedupe case-sensitively.
func SplitCandidates(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) < 3 {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// fallback synthesizes 1-3 drafts from the sample tables after a deliberate
// delay. Cancelling the context cuts the delay short.
func (p *Pipeline) fallback(ctx context.Context, uri string) ([]models.BookRecord, error) {
	timer := time.NewTimer(p.FallbackDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	now := time.Now().UnixMilli()
	count := 1 + rand.Intn(3)
	drafts := make([]models.BookRecord, 0, count)
	for i := 0; i < count; i++ {
		idx := rand.Intn(len(sampleTitles))
		drafts = append(drafts, models.BookRecord{
			ID:       uuid.NewString(),
			Title:    sampleTitles[idx],
			Author:   sampleAuthors[idx],
			Year:     strconv.Itoa(2020 + rand.Intn(5)),
			CoverURL: uri,
			AddedAt:  now,
		})
	}
	return drafts, nil
}
