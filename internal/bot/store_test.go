package bot

import (
	"context"
	"sort"
	"time"

	"github.com/hitoshi/outsourcebot/internal/database"
	"github.com/hitoshi/outsourcebot/internal/model"
)

// memDB はリポジトリインターフェースのインメモリ実装。
// 外部キーのCASCADE/SET NULLもストレージ側と同じ規則で再現する。
type memDB struct {
	users    map[int64]*model.User
	services []*model.Service
	options  []*model.ServiceOption
	faq      []*model.FaqEntry
	requests []*model.Request
	nextReq  int64
	failWith error
	upserts  int
}

// newSeededDB は初期データを投入済みのmemDBを返す。
func newSeededDB() *memDB {
	db := &memDB{users: map[int64]*model.User{}, nextReq: 1}
	var optID int64 = 1
	for i, s := range database.DefaultServices() {
		svc := &model.Service{ID: int64(i + 1), Name: s.Name, Description: s.Description}
		db.services = append(db.services, svc)
		for _, o := range s.Options {
			db.options = append(db.options, &model.ServiceOption{
				ID: optID, ServiceID: svc.ID, Name: o.Name, Description: o.Description, Price: o.Price,
			})
			optID++
		}
	}
	for i, f := range database.DefaultFAQ() {
		db.faq = append(db.faq, &model.FaqEntry{ID: int64(i + 1), Question: f.Question, Answer: f.Answer})
	}
	return db
}

type memUsers struct{ db *memDB }

func (m memUsers) Upsert(ctx context.Context, s model.Sender) error {
	if m.db.failWith != nil {
		return m.db.failWith
	}
	m.db.upserts++
	now := time.Now()
	if u, ok := m.db.users[s.ID]; ok {
		u.Username, u.FullName, u.LastActivity = s.Username, s.FullName, now
		return nil
	}
	m.db.users[s.ID] = &model.User{ID: s.ID, Username: s.Username, FullName: s.FullName, RegistrationDate: now, LastActivity: now}
	return nil
}
func (m memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.db.users[id], nil
}
func (m memUsers) List(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range m.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (m memUsers) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.db.users[id]; !ok {
		return 0, nil
	}
	delete(m.db.users, id)
	kept := m.db.requests[:0]
	for _, r := range m.db.requests {
		if r.UserID != id {
			kept = append(kept, r)
		}
	}
	m.db.requests = kept
	return 1, nil
}

type memServices struct{ db *memDB }

func (m memServices) List(ctx context.Context) ([]*model.Service, error) {
	if m.db.failWith != nil {
		return nil, m.db.failWith
	}
	return m.db.services, nil
}
func (m memServices) FindByName(ctx context.Context, name string) (*model.Service, error) {
	if m.db.failWith != nil {
		return nil, m.db.failWith
	}
	for _, s := range m.db.services {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}
func (m memServices) DeleteByID(ctx context.Context, id int64) (int64, error) {
	for i, s := range m.db.services {
		if s.ID != id {
			continue
		}
		m.db.services = append(m.db.services[:i], m.db.services[i+1:]...)
		removed := map[int64]bool{}
		kept := m.db.options[:0]
		for _, o := range m.db.options {
			if o.ServiceID == id {
				removed[o.ID] = true
				continue
			}
			kept = append(kept, o)
		}
		m.db.options = kept
		for _, r := range m.db.requests {
			if r.ServiceOptionID != nil && removed[*r.ServiceOptionID] {
				r.ServiceOptionID = nil
			}
		}
		return 1, nil
	}
	return 0, nil
}

type memOptions struct{ db *memDB }

func (m memOptions) ListByServiceID(ctx context.Context, serviceID int64) ([]*model.ServiceOption, error) {
	var out []*model.ServiceOption
	for _, o := range m.db.options {
		if o.ServiceID == serviceID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (m memOptions) FindByName(ctx context.Context, name string) (*model.ServiceOptionWithService, error) {
	for _, o := range m.db.options {
		if o.Name != name {
			continue
		}
		res := &model.ServiceOptionWithService{ServiceOption: *o}
		for _, s := range m.db.services {
			if s.ID == o.ServiceID {
				res.ServiceName = s.Name
			}
		}
		return res, nil
	}
	return nil, nil
}

type memFaq struct{ db *memDB }

func (m memFaq) List(ctx context.Context) ([]*model.FaqEntry, error) {
	return m.db.faq, nil
}
func (m memFaq) FindByQuestion(ctx context.Context, q string) (*model.FaqEntry, error) {
	for _, f := range m.db.faq {
		if f.Question == q {
			return f, nil
		}
	}
	return nil, nil
}
func (m memFaq) DeleteByID(ctx context.Context, id int64) (int64, error) {
	for i, f := range m.db.faq {
		if f.ID == id {
			m.db.faq = append(m.db.faq[:i], m.db.faq[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type memRequests struct{ db *memDB }

func (m memRequests) Create(ctx context.Context, userID int64, text string, optionID *int64) (int64, error) {
	if m.db.failWith != nil {
		return 0, m.db.failWith
	}
	if _, ok := m.db.users[userID]; !ok {
		return 0, errForeignKey
	}
	id := m.db.nextReq
	m.db.nextReq++
	m.db.requests = append(m.db.requests, &model.Request{
		ID: id, UserID: userID, Text: text, CreatedAt: time.Now(), Status: model.StatusNew, ServiceOptionID: optionID,
	})
	return id, nil
}
func (m memRequests) FindByID(ctx context.Context, id int64) (*model.Request, error) {
	for _, r := range m.db.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}
func (m memRequests) List(ctx context.Context) ([]*model.Request, error) {
	out := make([]*model.Request, len(m.db.requests))
	for i, r := range m.db.requests {
		out[len(out)-1-i] = r
	}
	return out, nil
}
func (m memRequests) DeleteByID(ctx context.Context, id int64) (int64, error) {
	for i, r := range m.db.requests {
		if r.ID == id {
			m.db.requests = append(m.db.requests[:i], m.db.requests[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
func (m memRequests) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(m.db.requests))
	m.db.requests = nil
	return n, nil
}
func (m memRequests) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}
