package api

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"creator_support/internal/domain"
	"creator_support/internal/store"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store that enforces the same unique and foreign-key rules as the schema
type memStore struct {
	mu        sync.Mutex
	clock     time.Time
	nextID    uint
	users     map[uint]*domain.User
	profiles  map[uint]*domain.Profile // by user id
	cards     map[uint]*domain.BankCard
	donations []domain.Donation
	companies map[uint]*domain.Company
	accounts  map[uint]*domain.Account
	entries   []domain.JournalEntry

	calls map[string]int

	// skipPrecheck makes the existence checks lie, as if a concurrent request inserted in between
	skipPrecheck bool
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		users:     map[uint]*domain.User{},
		profiles:  map[uint]*domain.Profile{},
		cards:     map[uint]*domain.BankCard{},
		companies: map[uint]*domain.Company{},
		accounts:  map[uint]*domain.Account{},
		calls:     map[string]int{},
	}
}

func (m *memStore) tick() (uint, time.Time) {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	return m.nextID, m.clock
}

func (m *memStore) called(name string) {
	m.calls[name]++
}

func (m *memStore) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.calls {
		n += v
	}
	return n
}

func (m *memStore) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("CreateUser")
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return &store.ConstraintViolation{Kind: store.KindUnique, Field: "email"}
		}
		if existing.Username == u.Username {
			return &store.ConstraintViolation{Kind: store.KindUnique, Field: "username"}
		}
	}
	u.ID, u.CreatedAt = m.tick()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) FindUserByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("FindUserByID")
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("FindUserByEmail")
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("EmailExists")
	if m.skipPrecheck {
		return false, nil
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("UsernameExists")
	if m.skipPrecheck {
		return false, nil
	}
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UserGraph(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("UserGraph")
	return m.graph(id, true)
}

func (m *memStore) graph(id uint, withDonations bool) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	if p, ok := m.profiles[id]; ok {
		pc := *p
		cp.Profile = &pc
	}
	cp.BankCards = nil
	for _, card := range m.cards {
		if card.UserID == id {
			cp.BankCards = append(cp.BankCards, *card)
		}
	}
	sort.Slice(cp.BankCards, func(i, j int) bool { return cp.BankCards[i].ID > cp.BankCards[j].ID })
	cp.UseNewestBankCard()
	if !withDonations {
		return &cp, nil
	}
	for _, d := range m.newestDonations() {
		if d.DonorID == id {
			d.Recipient, _ = m.graph(d.RecipientID, false)
			cp.SentDonations = append(cp.SentDonations, d)
		}
		if d.RecipientID == id {
			d.Donor, _ = m.graph(d.DonorID, false)
			cp.ReceivedDonations = append(cp.ReceivedDonations, d)
		}
	}
	return &cp, nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uint, hash string, changedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("UpdatePassword")
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	u.PasswordChangedAt = &changedAt
	u.TokenVersion++
	return nil
}

func (m *memStore) BumpTokenVersion(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("BumpTokenVersion")
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memStore) TokenVersion(_ context.Context, id uint) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	return u.TokenVersion, nil
}

func (m *memStore) CreateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("CreateProfile")
	if _, ok := m.users[p.UserID]; !ok {
		return &store.ConstraintViolation{Kind: store.KindForeignKey, Field: "userId"}
	}
	if _, ok := m.profiles[p.UserID]; ok {
		return &store.ConstraintViolation{Kind: store.KindUnique, Field: "userId"}
	}
	p.ID, p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *memStore) ProfileByUserID(_ context.Context, userID uint) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("ProfileByUserID")
	if m.skipPrecheck {
		return nil, store.ErrNotFound
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdateProfile(_ context.Context, userID uint, upd domain.ProfileUpdate) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("UpdateProfile")
	p, ok := m.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&p.Name, upd.Name)
	assign(&p.About, upd.About)
	assign(&p.AvatarImage, upd.AvatarImage)
	assign(&p.SocialMediaURL, upd.SocialMediaURL)
	assign(&p.BackgroundImage, upd.BackgroundImage)
	assign(&p.SuccessMessage, upd.SuccessMessage)
	_, p.UpdatedAt = m.tick()
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateBankCard(_ context.Context, c *domain.BankCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("CreateBankCard")
	if _, ok := m.users[c.UserID]; !ok {
		return &store.ConstraintViolation{Kind: store.KindForeignKey, Field: "userId"}
	}
	c.ID, c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.cards[c.ID] = &cp
	return nil
}

func (m *memStore) UpdateBankCard(_ context.Context, id uint, upd domain.BankCardUpdate) (*domain.BankCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("UpdateBankCard")
	c, ok := m.cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&c.Country, upd.Country)
	assign(&c.FirstName, upd.FirstName)
	assign(&c.LastName, upd.LastName)
	assign(&c.CardNumber, upd.CardNumber)
	assign(&c.ExpiryDate, upd.ExpiryDate)
	assign(&c.CVC, upd.CVC)
	_, c.UpdatedAt = m.tick()
	cp := *c
	return &cp, nil
}

func (m *memStore) CreateDonation(_ context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("CreateDonation")
	if _, ok := m.users[d.DonorID]; !ok {
		return &store.ConstraintViolation{Kind: store.KindForeignKey, Field: "donorId"}
	}
	if _, ok := m.users[d.RecipientID]; !ok {
		return &store.ConstraintViolation{Kind: store.KindForeignKey, Field: "recipientId"}
	}
	d.ID, d.CreatedAt = m.tick()
	d.UpdatedAt = d.CreatedAt
	m.donations = append(m.donations, *d)
	return nil
}

func (m *memStore) newestDonations() []domain.Donation {
	out := append([]domain.Donation(nil), m.donations...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) matching(recipientID uint, f domain.DonationFilter) []domain.Donation {
	out := []domain.Donation{}
	for _, d := range m.newestDonations() {
		if d.RecipientID != recipientID {
			continue
		}
		if f.Since != nil && d.CreatedAt.Before(*f.Since) {
			continue
		}
		if len(f.Amounts) > 0 {
			hit := false
			for _, a := range f.Amounts {
				hit = hit || a.Equal(d.Amount)
			}
			if !hit {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

func (m *memStore) DonationsByRecipient(_ context.Context, recipientID uint, f domain.DonationFilter) ([]domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("DonationsByRecipient")
	list := m.matching(recipientID, f)
	for i := range list {
		list[i].Donor, _ = m.graph(list[i].DonorID, false)
		if list[i].Donor != nil {
			list[i].Donor.BankCard = nil
		}
	}
	return list, nil
}

func (m *memStore) Earnings(_ context.Context, recipientID uint, f domain.DonationFilter) (decimal.Decimal, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("Earnings")
	total := decimal.Zero
	list := m.matching(recipientID, f)
	for _, d := range list {
		total = total.Add(d.Amount)
	}
	return total, int64(len(list)), nil
}

func (m *memStore) CreateCompany(_ context.Context, c *domain.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.companies {
		if existing.TaxID == c.TaxID {
			return &store.ConstraintViolation{Kind: store.KindUnique, Field: "taxId"}
		}
	}
	c.ID, c.CreatedAt = m.tick()
	cp := *c
	m.companies[c.ID] = &cp
	return nil
}

func (m *memStore) CompanyByID(_ context.Context, id uint) (*domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) CompaniesByOwner(_ context.Context, userID uint) ([]domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Company{}
	for _, c := range m.companies {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateAccount(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.CompanyID == a.CompanyID && existing.Code == a.Code {
			return &store.ConstraintViolation{Kind: store.KindUnique, Field: "code"}
		}
	}
	a.ID, a.CreatedAt = m.tick()
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *memStore) AccountsByCompany(_ context.Context, companyID uint) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountsOf(companyID), nil
}

func (m *memStore) accountsOf(companyID uint) []domain.Account {
	out := []domain.Account{}
	for _, a := range m.accounts {
		if a.CompanyID == companyID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *memStore) CreateJournalEntry(_ context.Context, e *domain.JournalEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range e.AccountIDs() {
		a, ok := m.accounts[id]
		if !ok || a.CompanyID != e.CompanyID {
			return store.ErrForeignAccount
		}
	}
	e.ID, e.CreatedAt = m.tick()
	for i := range e.Lines {
		e.Lines[i].ID, _ = m.tick()
		e.Lines[i].JournalEntryID = e.ID
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memStore) JournalEntries(_ context.Context, companyID uint) ([]domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.JournalEntry{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].CompanyID == companyID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memStore) TrialBalance(_ context.Context, companyID uint) ([]domain.TrialBalanceLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := map[uint][2]decimal.Decimal{}
	for _, e := range m.entries {
		if e.CompanyID != companyID {
			continue
		}
		for _, l := range e.Lines {
			t := totals[l.AccountID]
			totals[l.AccountID] = [2]decimal.Decimal{t[0].Add(l.Debit), t[1].Add(l.Credit)}
		}
	}
	lines := []domain.TrialBalanceLine{}
	for _, a := range m.accountsOf(companyID) {
		t := totals[a.ID]
		lines = append(lines, domain.NewTrialBalanceLine(a, t[0], t[1]))
	}
	return lines, nil
}

func (m *memStore) profileCount(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[userID]; ok {
		return 1
	}
	return 0
}

func (m *memStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// memCache is a map-backed utils.Cache
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
