package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type CheckoutRequest struct {
	ShippingAddressID int64                `json:"shippingAddressId" binding:"required,gt=0"`
	BillingAddressID  int64                `json:"billingAddressId" binding:"omitempty,gt=0"`
	PaymentMethod     entity.PaymentMethod `json:"paymentMethod" binding:"required,oneof=CREDIT_CARD DEBIT_CARD PAYPAL BANK_TRANSFER CASH_ON_DELIVERY"`
	ShippingMethod    string               `json:"shippingMethod" binding:"omitempty,oneof=standard express"`
	PromotionCode     string               `json:"promotionCode" binding:"max=50"`
	Notes             string               `json:"notes" binding:"max=1000"`
}

type OrderStatusRequest struct {
	Status         entity.OrderStatus `json:"status" binding:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	TrackingNumber string             `json:"trackingNumber" binding:"max=100"`
}

type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type PaymentResponse struct {
	ID            int64                `json:"id"`
	TransactionID string               `json:"transactionId"`
	PaymentMethod entity.PaymentMethod `json:"paymentMethod"`
	Status        entity.PaymentStatus `json:"status"`
	Amount        decimal.Decimal      `json:"amount"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	User            *UserResponse       `json:"user"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress *AddressResponse    `json:"shippingAddress"`
	BillingAddress  *AddressResponse    `json:"billingAddress"`
	Payment         *PaymentResponse    `json:"payment"`
	Status          entity.OrderStatus  `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shippingCost"`
	TaxAmount       decimal.Decimal     `json:"taxAmount"`
	DiscountAmount  decimal.Decimal     `json:"discountAmount"`
	PromotionCode   string              `json:"promotionCode"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	TrackingNumber  string              `json:"trackingNumber"`
	Notes           string              `json:"notes"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func NewOrderResponse(o *entity.Order) OrderResponse {
	r := OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		User:        userRef(o.User),
		Items: Map(o.Items, func(it *entity.OrderItem) OrderItemResponse {
			return OrderItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Price:       it.Price,
				Quantity:    it.Quantity,
				Subtotal:    it.Subtotal,
			}
		}),
		ShippingAddress: addressRef(o.ShippingAddress),
		BillingAddress:  addressRef(o.BillingAddress),
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		TaxAmount:       o.TaxAmount,
		DiscountAmount:  o.DiscountAmount,
		PromotionCode:   o.PromotionCode,
		TotalAmount:     o.TotalAmount,
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if p := o.Payment; p != nil {
		r.Payment = &PaymentResponse{
			ID:            p.ID,
			TransactionID: p.TransactionID,
			PaymentMethod: p.Method,
			Status:        p.Status,
			Amount:        p.Amount,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		}
	}
	return r
}

type AddressRequest struct {
	FullName     string             `json:"fullName" binding:"required,max=100"`
	AddressLine1 string             `json:"addressLine1" binding:"required,max=255"`
	AddressLine2 string             `json:"addressLine2" binding:"max=255"`
	City         string             `json:"city" binding:"required,max=100"`
	State        string             `json:"state" binding:"max=100"`
	PostalCode   string             `json:"postalCode" binding:"required,max=20"`
	Country      string             `json:"country" binding:"required,max=100"`
	Phone        string             `json:"phone" binding:"omitempty,phone"`
	IsDefault    bool               `json:"isDefault"`
	Type         entity.AddressType `json:"type" binding:"required,oneof=SHIPPING BILLING"`
}

func (r AddressRequest) ToEntity() *entity.Address {
	return &entity.Address{
		FullName:     r.FullName,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Phone:        r.Phone,
		IsDefault:    r.IsDefault,
		Type:         r.Type,
	}
}

type AddressResponse struct {
	ID           int64              `json:"id"`
	FullName     string             `json:"fullName"`
	AddressLine1 string             `json:"addressLine1"`
	AddressLine2 string             `json:"addressLine2"`
	City         string             `json:"city"`
	State        string             `json:"state"`
	PostalCode   string             `json:"postalCode"`
	Country      string             `json:"country"`
	Phone        string             `json:"phone"`
	IsDefault    bool               `json:"isDefault"`
	Type         entity.AddressType `json:"type"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func NewAddressResponse(a *entity.Address) AddressResponse {
	return AddressResponse{
		ID:           a.ID,
		FullName:     a.FullName,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
		IsDefault:    a.IsDefault,
		Type:         a.Type,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func addressRef(a *entity.Address) *AddressResponse {
	if a == nil {
		return nil
	}
	r := NewAddressResponse(a)
	return &r
}
