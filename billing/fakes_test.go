package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"kpslogistics/models"
)

type memVendorRepo struct {
	mu      sync.Mutex
	nextID  int64
	vendors map[int64]*models.Vendor
	err     error
}

func newMemVendorRepo(vendors ...*models.Vendor) *memVendorRepo {
	r := &memVendorRepo{vendors: map[int64]*models.Vendor{}}
	for _, v := range vendors {
		if v.ID > r.nextID {
			r.nextID = v.ID
		}
		r.vendors[v.ID] = v
	}
	return r
}

func (r *memVendorRepo) CreateVendor(_ context.Context, v *models.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.vendors {
		if existing.Name == v.Name {
			return models.ErrDuplicateVendor
		}
	}
	r.nextID++
	v.ID = r.nextID
	cp := *v
	r.vendors[v.ID] = &cp
	return nil
}

func (r *memVendorRepo) UpdateVendor(_ context.Context, v *models.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.vendors[v.ID]
	if !ok {
		return models.ErrNotFound
	}
	cp := *v
	cp.IsDefault = existing.IsDefault
	cp.PendingBalance = existing.PendingBalance
	r.vendors[v.ID] = &cp
	return nil
}

func (r *memVendorRepo) GetVendor(_ context.Context, id int64) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	v, ok := r.vendors[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *memVendorRepo) GetVendorByName(_ context.Context, name string) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vendors {
		if v.Name == name {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memVendorRepo) ListVendors(_ context.Context) ([]*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memVendorRepo) DeleteVendor(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendors[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.vendors, id)
	return nil
}

func (r *memVendorRepo) SetDefaultVendor(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendors[id]; !ok {
		return models.ErrNotFound
	}
	for vid, v := range r.vendors {
		v.IsDefault = vid == id
	}
	return nil
}

func (r *memVendorRepo) AdjustPendingBalance(_ context.Context, id int64, delta float64) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok {
		return 0, 0, models.ErrNotFound
	}
	before := v.PendingBalance
	v.PendingBalance += delta
	return before, v.PendingBalance, nil
}

func (r *memVendorRepo) defaults() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, v := range r.vendors {
		if v.IsDefault {
			ids = append(ids, id)
		}
	}
	return ids
}

type memEntryRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]*models.Entry
	lists   int
	err     error
}

func newMemEntryRepo(entries ...*models.Entry) *memEntryRepo {
	r := &memEntryRepo{entries: map[int64]*models.Entry{}}
	for _, e := range entries {
		if e.ID == 0 {
			r.nextID++
			e.ID = r.nextID
		} else if e.ID > r.nextID {
			r.nextID = e.ID
		}
		r.entries[e.ID] = e
	}
	return r
}

func (r *memEntryRepo) CreateEntry(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *memEntryRepo) UpdateEntry(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *memEntryRepo) GetEntry(_ context.Context, id int64) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *memEntryRepo) ListEntries(_ context.Context, f models.EntryFilter) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	out := []*models.Entry{}
	for _, e := range r.entries {
		if f.VendorID != nil && e.VendorID != *f.VendorID {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Date.Before(*f.To) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			if f.Ascending {
				return out[i].Date.Before(out[j].Date)
			}
			return out[i].Date.After(out[j].Date)
		}
		if f.Ascending {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memEntryRepo) CountEntriesForVendor(_ context.Context, vendorID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.VendorID == vendorID {
			n++
		}
	}
	return n, nil
}

func (r *memEntryRepo) DeleteEntry(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

type memAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (r *memAuditRepo) RecordAudit(_ context.Context, l *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, l)
	return nil
}

func (r *memAuditRepo) ListAudit(_ context.Context, limit int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.AuditLog, 0, len(r.logs))
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *memAuditRepo) DeleteAuditBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.logs[:0]
	var n int64
	for _, l := range r.logs {
		if l.Timestamp.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept
	return n, nil
}

// recordingSink captures audit events; failWith makes every Record fail.
type recordingSink struct {
	mu       sync.Mutex
	events   []auditEvent
	failWith error
}

type auditEvent struct {
	actor, action, detail string
}

func (s *recordingSink) Record(_ context.Context, actor, action, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.events = append(s.events, auditEvent{actor, action, detail})
	return nil
}

func (s *recordingSink) last() auditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return auditEvent{}
	}
	return s.events[len(s.events)-1]
}

var errStore = errors.New("store unavailable")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func flatEntry(vendorID int64, date time.Time, parcels int, total float64, shipTo string) *models.Entry {
	return &models.Entry{
		Date:       date,
		VendorID:   vendorID,
		ShipFrom:   models.DefaultShipFrom,
		ShipTo:     shipTo,
		Parcels:    parcels,
		Mode:       models.PricingFlat,
		Flat:       &models.FlatCharges{Handling: total},
		GrandTotal: total,
	}
}

func ptr[T any](v T) *T {
	return &v
}
