package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rcvillanueva/padeliver-backend/pkg/db/models"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the cart operations.
type Service interface {
	AddToCart(ctx context.Context, userID string, input AddItemInput) (*CartDTO, error)
	GetCart(ctx context.Context, userID string) (*CartDTO, error)
}

// AddItemInput is the validated add-to-cart payload.
type AddItemInput struct {
	ProductID string
	Quantity  int64
}

type cartStore interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type productReader interface {
	FindByID(ctx context.Context, productID string) (*models.Product, error)
}

type service struct {
	repo     cartStore
	products productReader
}

// NewService constructs a cart service instance.
func NewService(repo cartStore, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddToCart merges the incoming line into the user's cart. Lines are keyed by
// product_id: an existing line has its quantity incremented, otherwise a new
// line is appended with the product's current name and price. The whole item
// list is written back, so concurrent adds for the same user are last writer
// wins.
func (s *service) AddToCart(ctx context.Context, userID string, input AddItemInput) (*CartDTO, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		cart = &models.Cart{UserID: userID, Items: []models.CartLineItem{}}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == input.ProductID {
			cart.Items[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartLineItem{
			ProductID: product.ProductID,
			Item:      product.Item,
			Quantity:  input.Quantity,
			Price:     product.Price,
		})
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save cart")
	}

	return newCartDTO(userID, cart), nil
}

// GetCart returns the user's current cart. A user without a cart row gets an
// empty cart, not an error.
func (s *service) GetCart(ctx context.Context, userID string) (*CartDTO, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newCartDTO(userID, nil), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}

	return newCartDTO(userID, cart), nil
}
