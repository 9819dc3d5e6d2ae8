package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"parcel-backend/internal/models"
)

type memUsers struct {
	byID map[int]*models.User
}

func (m *memUsers) Get(ctx context.Context, id int) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

type memVendors struct {
	mu      sync.Mutex
	byID    map[int]*models.Vendor
	users   []*models.User
	nextID  int
	listErr error
}

func newMemVendors(vendors ...*models.Vendor) *memVendors {
	m := &memVendors{byID: map[int]*models.Vendor{}}
	for _, v := range vendors {
		m.byID[v.ID] = v
		if v.ID > m.nextID {
			m.nextID = v.ID
		}
	}
	return m
}

func (m *memVendors) Create(ctx context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	v.ID = m.nextID
	m.byID[v.ID] = v
	return nil
}

func (m *memVendors) CreateWithUser(ctx context.Context, v *models.Vendor, u *models.User) error {
	if err := m.Create(ctx, v); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.VendorID = &v.ID
	m.users = append(m.users, u)
	return nil
}

func (m *memVendors) Get(ctx context.Context, id int) (*models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVendors) List(ctx context.Context) ([]*models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Vendor
	for _, v := range m.byID {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memVendors) Update(ctx context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[v.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *v
	m.byID[v.ID] = &cp
	return nil
}

func (m *memVendors) SetActive(ctx context.Context, id int, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	v.IsActive = active
	return nil
}

func (m *memVendors) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memRecords struct {
	mu     sync.Mutex
	rows   []models.DeliveryRecord
	nextID int
	lists  int
}

func (m *memRecords) Create(ctx context.Context, rec *models.DeliveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	m.rows = append(m.rows, *rec)
	return nil
}

func (m *memRecords) BulkCreate(ctx context.Context, vendorID int, recs []*models.DeliveryRecord) error {
	for _, r := range recs {
		r.VendorID = vendorID
		if err := m.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *memRecords) Get(ctx context.Context, vendorID, id int) (*models.DeliveryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id && m.rows[i].VendorID == vendorID {
			cp := m.rows[i]
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memRecords) ListByVendor(ctx context.Context, vendorID int) ([]models.DeliveryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := []models.DeliveryRecord{}
	for _, r := range m.rows {
		if r.VendorID == vendorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecords) Update(ctx context.Context, rec *models.DeliveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == rec.ID && m.rows[i].VendorID == rec.VendorID {
			m.rows[i] = *rec
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memRecords) Delete(ctx context.Context, vendorID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id && m.rows[i].VendorID == vendorID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memRecords) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

func (c *memCache) Delete(ctx context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
}

func (c *memCache) has(key string) bool {
	_, ok := c.Get(context.Background(), key)
	return ok
}

type recordedEvents struct {
	events []models.LedgerEvent
}

func (r *recordedEvents) Publish(evt models.LedgerEvent) {
	r.events = append(r.events, evt)
}

type memArchive struct {
	keys  []string
	types []string
	err   error
}

func (a *memArchive) Archive(ctx context.Context, key, contentType string, data []byte) error {
	if a.err != nil {
		return a.err
	}
	a.keys = append(a.keys, key)
	a.types = append(a.types, contentType)
	return nil
}

func str(s string) *string { return &s }

func record(vendorID int, orderID, date, pb string, pbAmt float64, dc string, dcAmt float64, status string) models.DeliveryRecord {
	return models.DeliveryRecord{
		VendorID: vendorID,
		OrderID:  orderID,
		Date:     str(date),
		PB:       str(pb),
		DC:       str(dc),
		PBAmt:    models.NewAmount(pbAmt),
		DCAmt:    models.NewAmount(dcAmt),
		Status:   str(status),
	}
}
