package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"orgmanager/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryStore keeps organizations, admins and tenant collections in process
// memory. Writes are serialized by a single mutex so the collection name
// check and the insert happen atomically. Entities are copied on the way in
// and out.
type MemoryStore struct {
	mu          sync.RWMutex
	orgs        map[primitive.ObjectID]model.Organization
	admins      map[primitive.ObjectID]model.Admin
	collections map[string][]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:        make(map[primitive.ObjectID]model.Organization),
		admins:      make(map[primitive.ObjectID]model.Admin),
		collections: make(map[string][]map[string]interface{}),
	}
}

// Orgs returns an IOrgRepository backed by the store.
func (s *MemoryStore) Orgs() IOrgRepository { return &memoryOrgs{s} }

// Admins returns an IAdminRepository backed by the store.
func (s *MemoryStore) Admins() IAdminRepository { return &memoryAdmins{s} }

// Collections returns an ICollectionRepository backed by the store.
func (s *MemoryStore) Collections() ICollectionRepository { return &memoryCollections{s} }

// PutDocuments appends raw documents to a tenant collection, creating it.
func (s *MemoryStore) PutDocuments(collection string, docs ...map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], docs...)
}

// Documents returns the raw documents of a tenant collection.
func (s *MemoryStore) Documents(collection string) []map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]map[string]interface{}(nil), s.collections[collection]...)
}

type memoryOrgs struct{ s *MemoryStore }

func (r *memoryOrgs) EnsureIndexes(ctx context.Context) error { return ctx.Err() }

func (r *memoryOrgs) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.takenLocked(org.CollectionName, primitive.NilObjectID) {
		return nil, ErrDuplicateCollectionName
	}
	if org.ID.IsZero() {
		org.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	r.s.orgs[org.ID] = *org
	return org, nil
}

func (r *memoryOrgs) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	return r.findOne(ctx, func(o *model.Organization) bool { return o.ID == id })
}

func (r *memoryOrgs) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	return r.findOne(ctx, func(o *model.Organization) bool { return o.OrganizationName == name })
}

func (r *memoryOrgs) FindByCollectionName(ctx context.Context, collectionName string) (*model.Organization, error) {
	return r.findOne(ctx, func(o *model.Organization) bool { return o.CollectionName == collectionName })
}

func (r *memoryOrgs) CollectionNameTaken(ctx context.Context, collectionName string, exclude primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.takenLocked(collectionName, exclude), nil
}

func (r *memoryOrgs) Rename(ctx context.Context, id primitive.ObjectID, name, collectionName string) (*model.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	org, ok := r.s.orgs[id]
	if !ok {
		return nil, nil
	}
	if r.takenLocked(collectionName, id) {
		return nil, ErrDuplicateCollectionName
	}
	org.OrganizationName = name
	org.CollectionName = collectionName
	org.UpdatedAt = time.Now().UTC()
	r.s.orgs[id] = org
	return &org, nil
}

func (r *memoryOrgs) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[id]; !ok {
		return false, nil
	}
	delete(r.s.orgs, id)
	return true, nil
}

func (r *memoryOrgs) List(ctx context.Context) ([]*model.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Organization, 0, len(r.s.orgs))
	for _, o := range r.s.orgs {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryOrgs) findOne(ctx context.Context, match func(*model.Organization) bool) (*model.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orgs {
		o := o
		if match(&o) {
			return &o, nil
		}
	}
	return nil, nil
}

func (r *memoryOrgs) takenLocked(collectionName string, exclude primitive.ObjectID) bool {
	for id, o := range r.s.orgs {
		if id != exclude && o.CollectionName == collectionName {
			return true
		}
	}
	return false
}

type memoryAdmins struct{ s *MemoryStore }

func (r *memoryAdmins) EnsureIndexes(ctx context.Context) error { return ctx.Err() }

func (r *memoryAdmins) Create(ctx context.Context, admin *model.Admin) (*model.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.s.admins[admin.ID] = *admin
	return admin, nil
}

func (r *memoryAdmins) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// FindByEmail returns the earliest created admin with email, matching the
// natural order a document store scan would give.
func (r *memoryAdmins) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *model.Admin
	for _, a := range r.s.admins {
		a := a
		if a.Email != email {
			continue
		}
		if found == nil || a.CreatedAt.Before(found.CreatedAt) {
			found = &a
		}
	}
	return found, nil
}

func (r *memoryAdmins) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.HashedPassword = hashedPassword
	a.UpdatedAt = time.Now().UTC()
	r.s.admins[id] = a
	return nil
}

func (r *memoryAdmins) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.admins {
		if a.Email == email {
			delete(r.s.admins, id)
			n++
		}
	}
	return n, nil
}

type memoryCollections struct{ s *MemoryStore }

func (r *memoryCollections) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.collections[name]
	return ok, nil
}

func (r *memoryCollections) Copy(ctx context.Context, from, to string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	docs := r.s.collections[from]
	for _, d := range docs {
		cp := make(map[string]interface{}, len(d))
		for k, v := range d {
			cp[k] = v
		}
		r.s.collections[to] = append(r.s.collections[to], cp)
	}
	return int64(len(docs)), nil
}
