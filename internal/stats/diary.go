package stats

import (
	"sort"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Two diary entries within this window count toward one binge session.
const bingeWindow = 48 * time.Hour

var monthOrder = []time.Month{
	time.January, time.February, time.March, time.April,
	time.May, time.June, time.July, time.August,
	time.September, time.October, time.November, time.December,
}

// computeDiary fills the diary-driven analytics. Everything except the
// rewatch counts needs a watched date; undated entries are skipped per
// metric, not rejected.
func computeDiary(s *domain.Statistics, diary []domain.FilmEntry) {
	if len(diary) == 0 {
		return
	}

	computeRewatches(s, diary)

	dated := make([]domain.FilmEntry, 0, len(diary))
	for _, entry := range diary {
		if entry.WatchedDate != nil {
			dated = append(dated, entry)
		}
	}
	if len(dated) == 0 {
		return
	}

	computeMonthly(s, dated)
	computeWeekdaySplit(s, dated)
	computeMostActiveDay(s, dated)
	computeBinge(s, dated)
}

// computeRewatches counts diary logs per film key, so two films sharing
// a title (remakes) stay separate. Films logged more than once are the
// rewatches; every film ranks in the most-logged list.
func computeRewatches(s *domain.Statistics, diary []domain.FilmEntry) {
	counts := make(map[domain.FilmKey]int)
	var order []domain.FilmKey
	for _, entry := range diary {
		key := entry.Key()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	all := make([]domain.NameCount, 0, len(order))
	for _, key := range order {
		all = append(all, domain.NameCount{Name: key.Title, Count: counts[key]})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})

	rewatches := make([]domain.NameCount, 0, topRewatchLimit)
	for _, item := range all {
		if item.Count > 1 {
			rewatches = append(rewatches, item)
		}
		if len(rewatches) == topRewatchLimit {
			break
		}
	}
	s.TopRewatches = rewatches

	if len(all) > topRewatchLimit {
		all = all[:topRewatchLimit]
	}
	s.MostLogged = all
}

// computeMonthly emits all twelve months in calendar order, zero counts
// included, so the client can chart the year directly.
func computeMonthly(s *domain.Statistics, dated []domain.FilmEntry) {
	counts := make(map[time.Month]int)
	for _, entry := range dated {
		counts[entry.WatchedDate.Month()]++
	}

	monthly := make([]domain.MonthCount, 0, len(monthOrder))
	for _, month := range monthOrder {
		monthly = append(monthly, domain.MonthCount{
			Month: month.String(),
			Count: counts[month],
		})
	}
	s.MonthlyViewing = monthly
}

func computeWeekdaySplit(s *domain.Statistics, dated []domain.FilmEntry) {
	split := &domain.WeekdaySplit{}
	for _, entry := range dated {
		switch entry.WatchedDate.Weekday() {
		case time.Saturday, time.Sunday:
			split.Weekend++
		default:
			split.Weekday++
		}
	}
	s.DayOfWeek = split
}

// computeMostActiveDay finds the calendar day with the most logs; ties
// break toward the earliest day.
func computeMostActiveDay(s *domain.Statistics, dated []domain.FilmEntry) {
	counts := make(map[string]int)
	for _, entry := range dated {
		counts[entry.WatchedDate.Format("2006-01-02")]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	var (
		bestDay   string
		bestCount int
	)
	for _, day := range days {
		if counts[day] > bestCount {
			bestDay = day
			bestCount = counts[day]
		}
	}

	parsed, err := time.Parse("2006-01-02", bestDay)
	if err != nil {
		return
	}
	s.MostActiveDay = &domain.ActiveDay{
		Date:  parsed.Format("January 2"),
		Films: bestCount,
	}
}

// computeBinge walks the dated entries chronologically and groups runs
// where each watch lands within the window of the previous one. Runs of
// two or more films count as binge sessions.
func computeBinge(s *domain.Statistics, dated []domain.FilmEntry) {
	sorted := make([]domain.FilmEntry, len(dated))
	copy(sorted, dated)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WatchedDate.Before(*sorted[j].WatchedDate)
	})

	var (
		sessions []int
		current  int
		last     time.Time
	)
	for _, entry := range sorted {
		if current == 0 || entry.WatchedDate.Sub(last) <= bingeWindow {
			current++
		} else {
			if current >= 2 {
				sessions = append(sessions, current)
			}
			current = 1
		}
		last = *entry.WatchedDate
	}
	if current >= 2 {
		sessions = append(sessions, current)
	}

	if len(sessions) == 0 {
		return
	}

	binge := &domain.BingeStats{TotalSessions: len(sessions)}
	for _, n := range sessions {
		binge.TotalFilms += n
		if n > binge.LongestSession {
			binge.LongestSession = n
		}
	}
	s.Binge = binge
}
