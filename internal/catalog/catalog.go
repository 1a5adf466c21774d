package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/red445992/Code2Convert-HackForBusiness2/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("email or phone already registered")
)

// Service provides identity and lookup for shops and products. Reads are the
// common case; the only writes are independent row inserts and profile updates.
type Service struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// ProductFilter narrows ListProducts. A nil IsCommon means "either".
type ProductFilter struct {
	Category string
	IsCommon *bool
	Search   string
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := s.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	query := `SELECT * FROM products WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.IsCommon != nil {
		query += ` AND is_common = ?`
		args = append(args, *filter.IsCommon)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query += ` AND (LOWER(name) LIKE ? OR LOWER(brand) LIKE ?)`
		args = append(args, like, like)
	}
	query += ` ORDER BY is_common DESC, name ASC`

	products := []domain.Product{}
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// NewProduct carries the fields a shop supplies when adding a custom catalog
// entry. Common products come from the seed, not from here.
type NewProduct struct {
	Name         string
	Category     string
	Brand        string
	Unit         string
	Barcode      *string
	DefaultPrice float64
	ImageURL     *string
}

func (s *Service) CreateProduct(ctx context.Context, np NewProduct) (domain.Product, error) {
	if np.Unit == "" {
		np.Unit = "piece"
	}
	p := domain.Product{
		ID:           uuid.NewString(),
		Name:         np.Name,
		Category:     np.Category,
		Brand:        np.Brand,
		Unit:         np.Unit,
		Barcode:      np.Barcode,
		DefaultPrice: np.DefaultPrice,
		ImageURL:     np.ImageURL,
		IsCommon:     false,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, category, brand, unit, barcode, default_price, image_url, is_common, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		p.ID, p.Name, p.Category, p.Brand, p.Unit, p.Barcode, p.DefaultPrice, p.ImageURL, p.CreatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *Service) GetShop(ctx context.Context, id string) (domain.Shop, error) {
	var shop domain.Shop
	err := s.db.GetContext(ctx, &shop, `SELECT * FROM shops WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shop{}, fmt.Errorf("shop %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Shop{}, fmt.Errorf("get shop: %w", err)
	}
	return shop, nil
}

func (s *Service) GetShopByEmail(ctx context.Context, email string) (domain.Shop, error) {
	var shop domain.Shop
	err := s.db.GetContext(ctx, &shop, `SELECT * FROM shops WHERE email = ?`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shop{}, ErrNotFound
	}
	if err != nil {
		return domain.Shop{}, fmt.Errorf("get shop by email: %w", err)
	}
	return shop, nil
}

// NewShop carries the fields required to register a shop. PasswordHash must
// already be hashed by the caller.
type NewShop struct {
	Name         string
	OwnerName    string
	Email        string
	Phone        string
	PasswordHash string
	Address      string
	City         string
	District     string
}

func (s *Service) RegisterShop(ctx context.Context, ns NewShop) (domain.Shop, error) {
	shop := domain.Shop{
		ID:               uuid.NewString(),
		Name:             ns.Name,
		OwnerName:        ns.OwnerName,
		Email:            strings.ToLower(ns.Email),
		Phone:            ns.Phone,
		PasswordHash:     ns.PasswordHash,
		Address:          ns.Address,
		City:             ns.City,
		District:         ns.District,
		RegisteredAt:     time.Now().UTC().Format(time.RFC3339),
		IsActive:         true,
		SubscriptionTier: "free",
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shops (id, name, owner_name, email, phone, password_hash, address, city, district, registered_at, is_active, subscription_tier)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		shop.ID, shop.Name, shop.OwnerName, shop.Email, shop.Phone, shop.PasswordHash,
		shop.Address, shop.City, shop.District, shop.RegisteredAt, shop.SubscriptionTier)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Shop{}, ErrDuplicateIdentity
		}
		return domain.Shop{}, fmt.Errorf("register shop: %w", err)
	}
	return shop, nil
}

// ShopPatch names the profile fields present in an update. Nil fields are left
// untouched.
type ShopPatch struct {
	Name      *string `json:"name"`
	OwnerName *string `json:"owner_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	District  *string `json:"district"`
}

func (p ShopPatch) apply(shop *domain.Shop) {
	if p.Name != nil {
		shop.Name = *p.Name
	}
	if p.OwnerName != nil {
		shop.OwnerName = *p.OwnerName
	}
	if p.Phone != nil {
		shop.Phone = *p.Phone
	}
	if p.Address != nil {
		shop.Address = *p.Address
	}
	if p.City != nil {
		shop.City = *p.City
	}
	if p.District != nil {
		shop.District = *p.District
	}
}

// UpdateShopProfile applies the patch to the stored record and writes it back
// in a single statement.
func (s *Service) UpdateShopProfile(ctx context.Context, id string, patch ShopPatch) (domain.Shop, error) {
	shop, err := s.GetShop(ctx, id)
	if err != nil {
		return domain.Shop{}, err
	}
	patch.apply(&shop)

	_, err = s.db.ExecContext(ctx,
		`UPDATE shops SET name = ?, owner_name = ?, phone = ?, address = ?, city = ?, district = ? WHERE id = ?`,
		shop.Name, shop.OwnerName, shop.Phone, shop.Address, shop.City, shop.District, shop.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Shop{}, ErrDuplicateIdentity
		}
		return domain.Shop{}, fmt.Errorf("update shop profile: %w", err)
	}
	return shop, nil
}

func (s *Service) SetShopPassword(ctx context.Context, id, passwordHash string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE shops SET password_hash = ? WHERE id = ?`, passwordHash, id); err != nil {
		return fmt.Errorf("set shop password: %w", err)
	}
	return nil
}

func (s *Service) TouchLastLogin(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `UPDATE shops SET last_login_at = ? WHERE id = ?`, now, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// DeactivateShop soft-deactivates a shop; rows are never deleted.
func (s *Service) DeactivateShop(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE shops SET is_active = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deactivate shop: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
