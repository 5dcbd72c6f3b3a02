package billing

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"kpslogistics/config"
	"kpslogistics/models"
	"kpslogistics/repository"
)

const (
	trendMonths      = 6
	topVendors       = 5
	topDestinations  = 5
	allVendorsKeyTag = "-"
)

type AnalyticsService struct {
	Entries repository.EntryRepository
	Vendors repository.VendorRepository
	Cache   *Cache
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewAnalyticsService(entries repository.EntryRepository, vendors repository.VendorRepository, cache *Cache) *AnalyticsService {
	return &AnalyticsService{Entries: entries, Vendors: vendors, Cache: cache, Now: time.Now}
}

// BuildAnalytics computes the dashboard snapshot, restricted to one vendor
// when vendorID is set. All rollups come from a single read of the entries
// so they describe the same data under the same filter.
func (s *AnalyticsService) BuildAnalytics(ctx context.Context, vendorID *int64) (*models.AnalyticsSnapshot, error) {
	now := s.now()
	loader := func(ctx context.Context) (interface{}, error) {
		entries, err := s.Entries.ListEntries(ctx, models.EntryFilter{VendorID: vendorID, Ascending: true})
		if err != nil {
			return nil, err
		}
		vendors, err := s.Vendors.ListVendors(ctx)
		if err != nil {
			return nil, err
		}
		return ComputeAnalytics(entries, vendors, vendorID, now), nil
	}

	cache := s.Cache
	key, err := cache.BuildKey(ctx, "analytics", "snapshot", vendorToken(vendorID), now.Format(DateLayout))
	if err != nil {
		// compute uncached while redis is unreachable
		config.LogError(s.Logger, "billing", "BuildAnalytics", "cache key", vendorToken(vendorID), err)
		cache = nil
	}
	var snap models.AnalyticsSnapshot
	if err := cache.FetchJSON(ctx, key, &snap, loader); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ComputeAnalytics derives every rollup from entries. The current month is
// the calendar month containing now.
func ComputeAnalytics(entries []*models.Entry, vendors []*models.Vendor, vendorID *int64, now time.Time) *models.AnalyticsSnapshot {
	if vendorID != nil {
		entries = filterVendor(entries, *vendorID)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	snap := &models.AnalyticsSnapshot{
		VendorID: vendorID,
		Month:    monthStart.Format(MonthLayout),
	}

	active := map[int64]struct{}{}
	daily := make([]models.DayParcels, DaysInMonth(monthStart.Year(), monthStart.Month()))
	for i := range daily {
		daily[i].Day = i + 1
	}
	for _, e := range entries {
		d := e.Date.UTC()
		if d.Before(monthStart) || !d.Before(monthEnd) {
			continue
		}
		snap.Revenue += e.GrandTotal
		snap.Parcels += e.Parcels
		active[e.VendorID] = struct{}{}
		daily[d.Day()-1].Parcels += e.Parcels
	}
	snap.ActiveVendors = len(active)
	if snap.Parcels > 0 {
		snap.AvgPerParcel = snap.Revenue / float64(snap.Parcels)
	}

	snap.Daily = daily
	snap.Trend = monthlyTrend(entries)
	snap.VendorShare = vendorShare(entries, vendors)
	snap.Destinations = destinationCounts(entries)
	return snap
}

// DaysInMonth accounts for leap years.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthlyTrend sums revenue per month, oldest first, keeping the most recent
// trendMonths months that have entries. Empty months are absent.
func monthlyTrend(entries []*models.Entry) []models.MonthTotal {
	totals := map[string]float64{}
	for _, e := range entries {
		totals[e.Date.UTC().Format(MonthLayout)] += e.GrandTotal
	}
	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Strings(months)
	if len(months) > trendMonths {
		months = months[len(months)-trendMonths:]
	}

	trend := make([]models.MonthTotal, 0, len(months))
	for _, m := range months {
		trend = append(trend, models.MonthTotal{Month: m, Total: totals[m]})
	}
	return trend
}

// vendorShare ranks vendors by revenue using their current names.
func vendorShare(entries []*models.Entry, vendors []*models.Vendor) []models.VendorTotal {
	names := make(map[int64]string, len(vendors))
	for _, v := range vendors {
		names[v.ID] = v.Name
	}

	totals := map[int64]float64{}
	for _, e := range entries {
		totals[e.VendorID] += e.GrandTotal
	}

	share := make([]models.VendorTotal, 0, len(totals))
	for id, total := range totals {
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Vendor #%d", id)
		}
		share = append(share, models.VendorTotal{VendorID: id, Name: name, Total: total})
	}
	sort.Slice(share, func(i, j int) bool {
		if share[i].Total != share[j].Total {
			return share[i].Total > share[j].Total
		}
		return share[i].VendorID < share[j].VendorID
	})
	if len(share) > topVendors {
		share = share[:topVendors]
	}
	return share
}

// destinationCounts counts entries per destination, skipping blanks.
func destinationCounts(entries []*models.Entry) []models.GroupCount {
	counts := map[string]int{}
	for _, e := range entries {
		label := strings.TrimSpace(e.ShipTo)
		if label == "" {
			continue
		}
		counts[label]++
	}

	groups := make([]models.GroupCount, 0, len(counts))
	for label, n := range counts {
		groups = append(groups, models.GroupCount{Label: label, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Label < groups[j].Label
	})
	if len(groups) > topDestinations {
		groups = groups[:topDestinations]
	}
	return groups
}

func filterVendor(entries []*models.Entry, vendorID int64) []*models.Entry {
	out := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.VendorID == vendorID {
			out = append(out, e)
		}
	}
	return out
}

func vendorToken(vendorID *int64) string {
	if vendorID == nil {
		return allVendorsKeyTag
	}
	return strconv.FormatInt(*vendorID, 10)
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
