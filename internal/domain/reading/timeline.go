package reading

import "slices"

// Group is a run of cards sharing one bucket.
type Group struct {
	Bucket Bucket
	Cards  []Card
}

// Merge deduplicates cards by link and sorts them newest first.
//
// When two cards share a link the later one wins, keeping the slot of the
// first occurrence. Cards without a link cannot be deduplicated and are dropped.
// Ties on PublishedAt keep their merged order, so equal input yields equal output.
func Merge(cards []Card) []Card {
	merged := make([]Card, 0, len(cards))
	index := make(map[string]int, len(cards))
	for _, c := range cards {
		if c.Link == "" {
			continue
		}
		if i, ok := index[c.Link]; ok {
			merged[i] = c
			continue
		}
		index[c.Link] = len(merged)
		merged = append(merged, c)
	}

	slices.SortStableFunc(merged, func(a, b Card) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return merged
}

// Partition groups cards by bucket in display precedence, skipping empty buckets.
// Card order inside a group is preserved.
func Partition(cards []Card) []Group {
	byBucket := make(map[Bucket][]Card)
	for _, c := range cards {
		byBucket[c.Bucket] = append(byBucket[c.Bucket], c)
	}

	groups := make([]Group, 0, len(byBucket))
	for _, b := range Buckets {
		if cs := byBucket[b]; len(cs) > 0 {
			groups = append(groups, Group{Bucket: b, Cards: cs})
		}
	}
	return groups
}
