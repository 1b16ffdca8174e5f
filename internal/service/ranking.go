package service

import (
	"math"
	"sort"

	"github.com/elvinbay/sinaq/internal/model"
)

// RankGroup is a maximal run of attempts sharing the same rounded score
// fraction. The group occupies rank positions StartPosition through
// StartPosition+len(Attempts)-1 and splits any prize pool for that range
// evenly.
type RankGroup struct {
	StartPosition int
	Attempts      []model.Attempt
}

// RankAttempts orders completed attempts by score fraction, descending.
// Fractions are bucketed at two decimal places; attempts in the same bucket
// are tied. Within a group attempts are ordered by submission time (earliest
// first) for display, which never splits the group for prize purposes.
// Attempts without both score fields are ignored.
func RankAttempts(attempts []model.Attempt) []RankGroup {
	buckets := make(map[int][]model.Attempt)
	for _, a := range attempts {
		if a.Score == nil || a.TotalScore == nil {
			continue
		}
		buckets[scoreBucket(&a)] = append(buckets[scoreBucket(&a)], a)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	groups := make([]RankGroup, 0, len(keys))
	position := 1
	for _, k := range keys {
		group := buckets[k]
		sort.SliceStable(group, func(i, j int) bool {
			si, sj := group[i].SubmittedAt, group[j].SubmittedAt
			switch {
			case si == nil:
				return false
			case sj == nil:
				return true
			case !si.Equal(*sj):
				return si.Before(*sj)
			}
			return group[i].ID < group[j].ID
		})
		groups = append(groups, RankGroup{StartPosition: position, Attempts: group})
		position += len(group)
	}
	return groups
}

// scoreBucket maps an attempt to its tie bucket: the score fraction rounded
// to two decimals, scaled to an integer so bucket equality is exact.
func scoreBucket(a *model.Attempt) int {
	if *a.TotalScore <= 0 {
		return 0
	}
	fraction := float64(*a.Score) / float64(*a.TotalScore)
	return int(math.Round(fraction * 100))
}
