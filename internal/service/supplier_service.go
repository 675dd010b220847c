package service

import (
	"context"
	"errors"
	"strings"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

type SupplierService interface {
	ListSuppliers(ctx context.Context, q SupplierQuery) (*SupplierListing, error)
	GetSupplierDetail(ctx context.Context, id uint) (*SupplierDetail, error)
	CreateSupplier(ctx context.Context, req *CreateSupplierRequest, actor Actor) (*SupplierDetail, error)
	UpdateSupplier(ctx context.Context, id uint, req *UpdateSupplierRequest, actor Actor) (*SupplierDetail, error)
	DeleteSupplier(ctx context.Context, id uint, actor Actor) error
	SupplierImage(ctx context.Context, id uint) (data []byte, contentType string, err error)
}

type SupplierQuery struct {
	Search    string `json:"search" query:"search"`
	Location  string `json:"location" query:"location"`
	Status    string `json:"status" query:"status"`
	SortOrder string `json:"sort_order" query:"sort_order"`
}

// SupplierForm holds the fields shared by the create and edit forms.
type SupplierForm struct {
	CompanyName   string `json:"company_name" form:"company_name" validate:"required,max=100"`
	PersonName    string `json:"person_name" form:"person_name" validate:"max=100"`
	Department    string `json:"department" form:"department" validate:"max=100"`
	Email         string `json:"email" form:"email" validate:"required,email,max=100"`
	PhoneNumber   string `json:"phone_number" form:"phone_number" validate:"required,max=50"`
	Address       string `json:"address" form:"address" validate:"max=255"`
	Currency      string `json:"currency" form:"currency" validate:"max=50"`
	PaymentMethod string `json:"payment_method" form:"payment_method" validate:"max=50"`
	Courier       string `json:"courier" form:"courier" validate:"max=50"`
	PortalStatus  string `json:"portal_status" form:"portal_status" validate:"max=20"`

	ProfileImage []byte `json:"-" form:"-"`
}

type ContactForm struct {
	ID    uint   `json:"id" form:"id"`
	Name  string `json:"name" form:"name" validate:"max=100"`
	Email string `json:"email" form:"email" validate:"omitempty,email,max=100"`
	Phone string `json:"phone" form:"phone" validate:"max=50"`
}

type CreateSupplierRequest struct {
	SupplierForm
	ContactName  string `json:"contact_name" form:"contact_name" validate:"max=100"`
	ContactEmail string `json:"contact_email" form:"contact_email" validate:"omitempty,email,max=100"`
	ContactPhone string `json:"contact_phone" form:"contact_phone" validate:"max=50"`
}

type UpdateSupplierRequest struct {
	ID      uint `json:"id" form:"id"`
	Version uint `json:"version" form:"version" validate:"required"`
	SupplierForm
	// The full desired list of other contacts. ID 0 adds a contact; missing IDs are removed.
	Contacts []ContactForm `json:"contacts" form:"contacts" validate:"dive"`
}

func (f *SupplierForm) apply(s *model.Supplier) {
	s.CompanyName = strings.TrimSpace(f.CompanyName)
	s.PersonName = f.PersonName
	s.Department = f.Department
	s.Email = f.Email
	s.PhoneNumber = f.PhoneNumber
	s.Address = f.Address
	s.Currency = f.Currency
	s.PaymentMethod = f.PaymentMethod
	s.Courier = f.Courier
	s.PortalStatus = strings.TrimSpace(f.PortalStatus)
	if s.PortalStatus == "" {
		s.PortalStatus = model.DefaultPortalStatus
	}
	if len(f.ProfileImage) > 0 {
		s.ProfileImage = f.ProfileImage
	}
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	events       Publisher
	log          *zap.Logger
}

func NewSupplierService(supplierRepo repository.SupplierRepository, events Publisher, log *zap.Logger) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		events:       events,
		log:          log.Named("supplier"),
	}
}

func (s *supplierService) ListSuppliers(ctx context.Context, q SupplierQuery) (*SupplierListing, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "list suppliers", err)
	}
	counts, err := s.supplierRepo.ProductCounts(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "count supplier products", err)
	}

	res := catalog.ComposeSuppliers(suppliers, catalog.SupplierFilters{
		Search:   q.Search,
		Location: q.Location,
		Status:   q.Status,
	}, q.SortOrder)

	rows := make([]SupplierSummary, len(res.Suppliers))
	for i := range res.Suppliers {
		sup := &res.Suppliers[i]
		initial := catalog.Initial(sup.CompanyName, "S")
		rows[i] = SupplierSummary{
			ID:           sup.ID,
			CompanyName:  sup.CompanyName,
			PersonName:   sup.PersonName,
			Email:        sup.Email,
			PhoneNumber:  sup.PhoneNumber,
			Address:      sup.Address,
			PortalStatus: sup.PortalStatus,
			ProductCount: counts[sup.ID],
			Initial:      initial,
			AvatarColor:  catalog.AvatarColor(initial),
		}
		if sup.HasProfileImage() {
			rows[i].ImageURL = catalog.SupplierImageURL(sup.ID)
		}
	}

	q.SortOrder = res.AppliedSort
	return &SupplierListing{
		Suppliers:   rows,
		TotalCount:  res.TotalCount,
		Filters:     q,
		AppliedSort: res.AppliedSort,
		Locations:   res.Locations,
	}, nil
}

func (s *supplierService) GetSupplierDetail(ctx context.Context, id uint) (*SupplierDetail, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistenceFault(s.log, "get supplier", err)
	}
	return NewSupplierDetail(supplier), nil
}

func (s *supplierService) CreateSupplier(ctx context.Context, req *CreateSupplierRequest, actor Actor) (*SupplierDetail, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}
	exists, err := s.supplierRepo.ExistsByCompanyName(ctx, strings.TrimSpace(req.CompanyName), 0)
	if err != nil {
		return nil, persistenceFault(s.log, "check company name", err)
	}
	if exists {
		return nil, invalidField("company_name", "A supplier with this company name already exists.")
	}

	// 2. Build supplier and its optional first contact
	supplier := &model.Supplier{Version: 1}
	req.apply(supplier)
	supplier.CreatedBy = actor.auditID()
	supplier.UpdatedBy = actor.auditID()

	if strings.TrimSpace(req.ContactName) != "" &&
		strings.TrimSpace(req.ContactEmail) != "" &&
		strings.TrimSpace(req.ContactPhone) != "" {
		supplier.Contacts = []model.SupplierContact{{
			Name:  req.ContactName,
			Email: req.ContactEmail,
			Phone: req.ContactPhone,
		}}
	}

	// 3. Persist
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalidField("company_name", "A supplier with this company name already exists.")
		}
		return nil, persistenceFault(s.log, "create supplier", err)
	}

	publish(s.events, "created", "supplier", supplier.ID, supplier.CompanyName, actor)
	return NewSupplierDetail(supplier), nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uint, req *UpdateSupplierRequest, actor Actor) (*SupplierDetail, error) {
	// 1. Validate request
	if req.ID != id {
		return nil, invalidField("id", "Mismatched supplier ID.")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Load current state
	existing, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistenceFault(s.log, "load supplier", err)
	}
	if existing.Version != req.Version {
		return nil, &ConflictError{Current: NewSupplierDetail(existing)}
	}

	exists, err := s.supplierRepo.ExistsByCompanyName(ctx, strings.TrimSpace(req.CompanyName), id)
	if err != nil {
		return nil, persistenceFault(s.log, "check company name", err)
	}
	if exists {
		return nil, invalidField("company_name", "Another supplier with this company name already exists.")
	}

	// 3. Reconcile contacts against the submitted list
	persisted := make([]uint, len(existing.Contacts))
	for i, c := range existing.Contacts {
		persisted[i] = c.ID
	}
	submitted := make([]catalog.Entry[catalog.ContactFields], len(req.Contacts))
	for i, c := range req.Contacts {
		submitted[i] = catalog.Entry[catalog.ContactFields]{
			ID:     c.ID,
			Fields: catalog.ContactFields{Name: c.Name, Email: c.Email, Phone: c.Phone},
		}
	}
	plan := catalog.Reconcile(persisted, submitted, catalog.ContactBlank)

	// 4. Persist
	updated := &model.Supplier{BaseModel: existing.BaseModel, Version: req.Version}
	req.apply(updated)
	updated.UpdatedBy = actor.auditID()

	if err := s.supplierRepo.Update(ctx, updated, plan); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleVersion):
			return nil, s.supplierConflict(ctx, id)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, invalidField("company_name", "Another supplier with this company name already exists.")
		}
		return nil, persistenceFault(s.log, "update supplier", err)
	}

	publish(s.events, "updated", "supplier", id, updated.CompanyName, actor)
	return s.GetSupplierDetail(ctx, id)
}

// DeleteSupplier refuses while products still reference the supplier.
func (s *supplierService) DeleteSupplier(ctx context.Context, id uint, actor Actor) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistenceFault(s.log, "load supplier", err)
	}

	count, err := s.supplierRepo.CountProducts(ctx, id)
	if err != nil {
		return persistenceFault(s.log, "count supplier products", err)
	}
	if count > 0 {
		return &ReferentialError{Entity: "supplier", Name: supplier.CompanyName, Count: count}
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrInUse):
			// a product was linked between the count and the delete
			if recount, err := s.supplierRepo.CountProducts(ctx, id); err != nil {
				s.log.Warn("recount supplier products", zap.Uint("supplier_id", id), zap.Error(err))
			} else {
				count = recount
			}
			// the restrict constraint fired, so at least one product is linked
			count = max(count, 1)
			return &ReferentialError{Entity: "supplier", Name: supplier.CompanyName, Count: count}
		}
		return persistenceFault(s.log, "delete supplier", err)
	}

	publish(s.events, "deleted", "supplier", id, supplier.CompanyName, actor)
	return nil
}

func (s *supplierService) SupplierImage(ctx context.Context, id uint) ([]byte, string, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", persistenceFault(s.log, "load supplier", err)
	}
	if !supplier.HasProfileImage() {
		return nil, "", ErrNotFound
	}
	return supplier.ProfileImage, catalog.SniffImageType(supplier.ProfileImage), nil
}

func (s *supplierService) supplierConflict(ctx context.Context, id uint) error {
	current, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistenceFault(s.log, "reload supplier", err)
	}
	return &ConflictError{Current: NewSupplierDetail(current)}
}
