package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/mailer"
	"github.com/oksasatya/storefront-api/pkg/metrics"
)

const ShippingExpress = "express"

type CheckoutInput struct {
	ShippingAddressID int64
	BillingAddressID  int64 // zero bills to the shipping address
	PaymentMethod     entity.PaymentMethod
	ShippingMethod    string
	PromotionCode     string
	Notes             string
}

// Pricing holds the checkout constants.
type Pricing struct {
	TaxRate          decimal.Decimal
	ShippingStandard decimal.Decimal
	ShippingExpress  decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:          decimal.RequireFromString("0.10"),
		ShippingStandard: decimal.NewFromInt(5),
		ShippingExpress:  decimal.NewFromInt(15),
	}
}

func (p Pricing) Shipping(method string) decimal.Decimal {
	if strings.EqualFold(strings.TrimSpace(method), ShippingExpress) {
		return p.ShippingExpress
	}
	return p.ShippingStandard
}

// CheckoutService turns a cart into an order. Stock was reserved when the
// items were added to the cart, so it is not touched here.
type CheckoutService struct {
	Carts      repo.CartRepository
	Addresses  repo.AddressRepository
	Orders     repo.OrderRepository
	Payments   repo.PaymentRepository
	Promotions repo.PromotionRepository
	Discounts  *PromotionService
	Tx         repo.TxManager
	Mail       mailer.Publisher // nil disables confirmation emails
	Pricing    Pricing
	Logger     *logrus.Logger

	now func() time.Time
}

func NewCheckoutService(
	carts repo.CartRepository,
	addresses repo.AddressRepository,
	orders repo.OrderRepository,
	payments repo.PaymentRepository,
	promotions repo.PromotionRepository,
	discounts *PromotionService,
	tx repo.TxManager,
	mail mailer.Publisher,
	pricing Pricing,
	logger *logrus.Logger,
) *CheckoutService {
	return &CheckoutService{
		Carts:      carts,
		Addresses:  addresses,
		Orders:     orders,
		Payments:   payments,
		Promotions: promotions,
		Discounts:  discounts,
		Tx:         tx,
		Mail:       mail,
		Pricing:    pricing,
		Logger:     logger,
		now:        time.Now,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*entity.Order, error) {
	if !in.PaymentMethod.Valid() {
		return nil, apperror.BadRequest("Invalid payment method: %s", in.PaymentMethod)
	}
	if in.ShippingAddressID == 0 {
		return nil, apperror.BadRequest("Shipping address is required")
	}

	var order *entity.Order
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.Carts.GetByUserID(ctx, userID)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return apperror.NotFound("Cart not found for user: %d", userID)
			}
			return err
		}
		if len(cart.Items) == 0 {
			return apperror.Conflict("Cannot checkout with an empty cart")
		}

		shipping, err := s.ownedAddress(ctx, userID, in.ShippingAddressID, "Shipping")
		if err != nil {
			return err
		}
		billing := shipping
		if in.BillingAddressID != 0 && in.BillingAddressID != shipping.ID {
			if billing, err = s.ownedAddress(ctx, userID, in.BillingAddressID, "Billing"); err != nil {
				return err
			}
		}

		now := s.now()
		o := &entity.Order{
			OrderNumber:       orderNumber(now),
			UserID:            userID,
			ShippingAddressID: shipping.ID,
			BillingAddressID:  billing.ID,
			Status:            entity.OrderPending,
			Notes:             in.Notes,
		}
		products := make([]entity.Product, 0, len(cart.Items))
		subtotal := decimal.Zero
		for i := range cart.Items {
			it := &cart.Items[i]
			if it.Product == nil || !it.Product.Active {
				return apperror.BadRequest("Product is no longer available: %d", it.ProductID)
			}
			line := it.Subtotal()
			subtotal = subtotal.Add(line)
			products = append(products, *it.Product)
			o.Items = append(o.Items, entity.OrderItem{
				ProductID:   it.ProductID,
				ProductName: it.Product.Name,
				Price:       it.Product.EffectivePrice(),
				Quantity:    it.Quantity,
				Subtotal:    line,
			})
		}

		o.Subtotal = subtotal
		o.ShippingCost = s.Pricing.Shipping(in.ShippingMethod)
		o.TaxAmount = subtotal.Mul(s.Pricing.TaxRate).Round(2)
		o.DiscountAmount = decimal.Zero

		var promo *entity.Promotion
		if code := strings.TrimSpace(in.PromotionCode); code != "" {
			p, discount, err := s.Discounts.CalculateDiscount(ctx, code, subtotal, products)
			if err != nil {
				return err
			}
			promo = p
			o.DiscountAmount = discount
			o.PromotionCode = p.Code
		}
		o.TotalAmount = decimal.Max(decimal.Zero, o.Subtotal.Add(o.ShippingCost).Add(o.TaxAmount).Sub(o.DiscountAmount))

		if err := s.Orders.Create(ctx, o); err != nil {
			return err
		}
		payment := &entity.Payment{
			OrderID:       o.ID,
			TransactionID: fmt.Sprintf("TXN-%d", now.UnixMilli()),
			Method:        in.PaymentMethod,
			Status:        entity.PaymentPending,
			Amount:        o.TotalAmount,
		}
		if err := s.Payments.Create(ctx, payment); err != nil {
			return err
		}
		if promo != nil {
			if err := s.Promotions.IncrementUsage(ctx, promo.ID); err != nil {
				return err
			}
		}
		if err := s.Carts.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		if err := s.Carts.Touch(ctx, cart.ID); err != nil {
			return err
		}
		order, err = s.Orders.GetByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderCreated(string(in.PaymentMethod))
	s.Logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total":        order.TotalAmount.StringFixed(2),
	}).Info("order placed")
	s.sendConfirmation(ctx, order)
	return order, nil
}

func (s *CheckoutService) ownedAddress(ctx context.Context, userID, id int64, kind string) (*entity.Address, error) {
	a, err := s.Addresses.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("%s address not found", kind)
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, apperror.Forbidden("%s address does not belong to the user", kind)
	}
	return a, nil
}

// sendConfirmation is best effort: the order is already committed.
func (s *CheckoutService) sendConfirmation(ctx context.Context, o *entity.Order) {
	if s.Mail == nil || o.User == nil {
		return
	}
	items := 0
	for _, it := range o.Items {
		items += it.Quantity
	}
	method := ""
	if o.Payment != nil {
		method = string(o.Payment.Method)
	}
	job := mailer.EmailJob{
		To:       o.User.Email,
		Template: mailer.JobOrderConfirmation,
		Data: map[string]any{
			"name":          o.User.FullName(),
			"orderNumber":   o.OrderNumber,
			"itemCount":     items,
			"totalAmount":   o.TotalAmount.StringFixed(2),
			"paymentMethod": method,
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("order_number", o.OrderNumber).Warn("enqueue order confirmation failed")
	}
}

// orderNumber formats ORD-<yyyyMMdd>-<8 hex chars>.
func orderNumber(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + now.UTC().Format("20060102") + "-" + strings.ToUpper(id[:8])
}
