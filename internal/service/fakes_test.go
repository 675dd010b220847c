package service

import (
	"context"
	"slices"
	"sort"
	"sync"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/ws"

	"github.com/google/uuid"
)

// --- Product repository ---

type fakeProductRepo struct {
	mu          sync.Mutex
	products    map[uint]*model.Product
	nextID      uint
	nextImageID uint
	categories  *fakeCategoryRepo

	createErr     error
	setPrimaryErr error
	updateErr     error
	findAllErr    error
	lastChanges   repository.ImageChanges
}

func newFakeProductRepo(categories *fakeCategoryRepo) *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*model.Product{}, categories: categories}
}

func cloneProduct(p *model.Product) *model.Product {
	c := *p
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	if p.Quantity != nil {
		q := *p.Quantity
		c.Quantity = &q
	}
	if p.PrimaryImageID != nil {
		id := *p.PrimaryImageID
		c.PrimaryImageID = &id
	}
	c.Category = nil
	c.Images = make([]model.ImageData, len(p.Images))
	for i, img := range p.Images {
		img.Data = slices.Clone(img.Data)
		if img.Order != nil {
			o := *img.Order
			img.Order = &o
		}
		c.Images[i] = img
	}
	return &c
}

func (r *fakeProductRepo) hydrate(p *model.Product) *model.Product {
	c := cloneProduct(p)
	if c.CategoryID != nil && r.categories != nil {
		if cat, ok := r.categories.categories[*c.CategoryID]; ok {
			cc := *cat
			c.Category = &cc
		}
	}
	return c
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	ids := make([]uint, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.hydrate(r.products[id]))
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.hydrate(p), nil
}

func (r *fakeProductRepo) CreateAggregate(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	product.ID = r.nextID
	if product.Description != nil {
		product.Description.ProductID = product.ID
	}
	if product.Quantity != nil {
		product.Quantity.ProductID = product.ID
	}
	for i := range product.Images {
		r.nextImageID++
		product.Images[i].ID = r.nextImageID
		product.Images[i].ProductID = product.ID
	}
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *fakeProductRepo) SetPrimaryImage(ctx context.Context, productID uint, imageID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setPrimaryErr != nil {
		return r.setPrimaryErr
	}
	p, ok := r.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.PrimaryImageID = imageID
	return nil
}

func (r *fakeProductRepo) UpdateAggregate(ctx context.Context, product *model.Product, images repository.ImageChanges) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastChanges = images
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.products[product.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != product.Version {
		return repository.ErrStaleVersion
	}

	stored.Name = product.Name
	stored.SupplierName = product.SupplierName
	stored.SupplierID = product.SupplierID
	stored.CategoryID = product.CategoryID
	stored.UpdatedBy = product.UpdatedBy
	if product.Description != nil {
		d := *product.Description
		d.ProductID = product.ID
		stored.Description = &d
	}
	if product.Quantity != nil {
		q := *product.Quantity
		q.ProductID = product.ID
		stored.Quantity = &q
	}

	kept := stored.Images[:0]
	for _, img := range stored.Images {
		if slices.Contains(images.Delete, img.ID) {
			continue
		}
		if order, ok := images.Reorder[img.ID]; ok {
			o := order
			img.Order = &o
		}
		kept = append(kept, img)
	}
	stored.Images = kept
	for i := range images.Insert {
		r.nextImageID++
		images.Insert[i].ID = r.nextImageID
		images.Insert[i].ProductID = product.ID
		stored.Images = append(stored.Images, images.Insert[i])
	}

	primary := product.PrimaryImageID
	if primary == nil {
		primary = catalog.SelectPrimaryImage(stored.Images)
	}
	stored.PrimaryImageID = primary
	stored.Version++
	product.PrimaryImageID = primary
	product.Version = stored.Version
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// seed stores a product as-is, assigning identities where missing.
func (r *fakeProductRepo) seed(p model.Product) *model.Product {
	if p.Version == 0 {
		p.Version = 1
	}
	_ = r.CreateAggregate(context.Background(), &p)
	return &p
}

// --- Category repository ---

type fakeCategoryRepo struct {
	categories map[uint]*model.Category
	nextID     uint
	createErr  error
	detached   int64
}

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[uint]*model.Category{}}
	for _, n := range names {
		_ = r.Create(context.Background(), &model.Category{Name: n})
	}
	return r
}

func (r *fakeCategoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *fakeCategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	category.ID = r.nextID
	cc := *category
	r.categories[cc.ID] = &cc
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uint) (int64, error) {
	if _, ok := r.categories[id]; !ok {
		return 0, repository.ErrNotFound
	}
	delete(r.categories, id)
	return r.detached, nil
}

func (r *fakeCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

// --- Supplier repository ---

type fakeSupplierRepo struct {
	suppliers     map[uint]*model.Supplier
	productCounts map[uint]int64
	nextID        uint
	nextContactID uint

	updateErr error
	deleteErr error
	// countErrs is consumed one entry per CountProducts call
	countErrs []error
	onDelete  func()
	lastPlan  catalog.Plan[catalog.ContactFields]
	deleted   []uint
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: map[uint]*model.Supplier{}, productCounts: map[uint]int64{}}
}

func cloneSupplier(s *model.Supplier) *model.Supplier {
	c := *s
	c.ProfileImage = slices.Clone(s.ProfileImage)
	c.Contacts = slices.Clone(s.Contacts)
	c.Products = slices.Clone(s.Products)
	return &c
}

func (r *fakeSupplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	ids := make([]uint, 0, len(r.suppliers))
	for id := range r.suppliers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]model.Supplier, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneSupplier(r.suppliers[id]))
	}
	return out, nil
}

func (r *fakeSupplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneSupplier(s), nil
}

func (r *fakeSupplierRepo) FindByCompanyName(ctx context.Context, name string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if s.CompanyName == name {
			return cloneSupplier(s), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSupplierRepo) ExistsByCompanyName(ctx context.Context, name string, excludeID uint) (bool, error) {
	for _, s := range r.suppliers {
		if s.CompanyName == name && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSupplierRepo) ProductCounts(ctx context.Context) (map[uint]int64, error) {
	return r.productCounts, nil
}

func (r *fakeSupplierRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	if len(r.countErrs) > 0 {
		err := r.countErrs[0]
		r.countErrs = r.countErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return r.productCounts[id], nil
}

func (r *fakeSupplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	r.nextID++
	supplier.ID = r.nextID
	for i := range supplier.Contacts {
		r.nextContactID++
		supplier.Contacts[i].ID = r.nextContactID
		supplier.Contacts[i].SupplierID = supplier.ID
	}
	r.suppliers[supplier.ID] = cloneSupplier(supplier)
	return nil
}

func (r *fakeSupplierRepo) Update(ctx context.Context, supplier *model.Supplier, contacts catalog.Plan[catalog.ContactFields]) error {
	r.lastPlan = contacts
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.suppliers[supplier.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != supplier.Version {
		return repository.ErrStaleVersion
	}

	image := stored.ProfileImage
	if supplier.HasProfileImage() {
		image = supplier.ProfileImage
	}
	kept := make([]model.SupplierContact, 0, len(stored.Contacts))
	for _, c := range stored.Contacts {
		if slices.Contains(contacts.ToDelete, c.ID) {
			continue
		}
		for _, u := range contacts.ToUpdate {
			if u.ID == c.ID {
				c.Name, c.Email, c.Phone = u.Fields.Name, u.Fields.Email, u.Fields.Phone
			}
		}
		kept = append(kept, c)
	}
	for _, f := range contacts.ToInsert {
		r.nextContactID++
		kept = append(kept, model.SupplierContact{ID: r.nextContactID, SupplierID: supplier.ID, Name: f.Name, Email: f.Email, Phone: f.Phone})
	}

	updated := cloneSupplier(supplier)
	updated.ProfileImage = image
	updated.Contacts = kept
	updated.Products = stored.Products
	updated.Version = stored.Version + 1
	r.suppliers[supplier.ID] = updated
	supplier.Version = updated.Version
	return nil
}

func (r *fakeSupplierRepo) Delete(ctx context.Context, id uint) error {
	if r.onDelete != nil {
		r.onDelete()
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.suppliers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.suppliers, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeSupplierRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.suppliers)), nil
}

// --- Image repository ---

type fakeImageRepo struct {
	products *fakeProductRepo
}

func (r *fakeImageRepo) FindByID(ctx context.Context, id uint) (*model.ImageData, error) {
	r.products.mu.Lock()
	defer r.products.mu.Unlock()
	for _, p := range r.products.products {
		for _, img := range p.Images {
			if img.ID == id {
				found := img
				return &found, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

// --- User and role repositories ---

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeRoleRepo struct {
	roles map[string]*model.Role
}

func (r *fakeRoleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	out := make([]model.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *fakeRoleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	role, ok := r.roles[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) SeedDefaults(ctx context.Context) error { return nil }

func (r *fakeRoleRepo) GrantDefaultPrivileges(ctx context.Context, privileges []model.Privilege) error {
	return nil
}

// --- Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}
