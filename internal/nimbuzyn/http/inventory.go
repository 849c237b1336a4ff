package http

import (
	"net/http"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/service"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

type productResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Quantity    int64     `json:"quantity"`
	NetValue    float64   `json:"net_value"`
	SaleValue   float64   `json:"sale_value"`
	ProfitValue float64   `json:"profit_value"`
	OutOfStock  bool      `json:"out_of_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Quantity:    p.Quantity,
		NetValue:    p.NetValue,
		SaleValue:   p.SaleValue,
		ProfitValue: p.ProfitValue,
		OutOfStock:  p.OutOfStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type createProductRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	NetValue  float64 `json:"net_value"`
	SaleValue float64 `json:"sale_value"`
}

func (rt *Router) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := rt.Inventory.CreateProduct(r.Context(), userID, service.ProductInput{
		Code:      req.Code,
		Name:      req.Name,
		Quantity:  req.Quantity,
		NetValue:  req.NetValue,
		SaleValue: req.SaleValue,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

// handleListProducts returns the caller's inventory. ?q= switches to a
// case-insensitive search over code and name.
func (rt *Router) handleListProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var (
		products []domain.Product
		err      error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		products, err = rt.Inventory.Search(r.Context(), userID, q)
	} else {
		products, err = rt.Inventory.ListProducts(r.Context(), userID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type updateProductRequest struct {
	Code      *string  `json:"code,omitempty"`
	Name      *string  `json:"name,omitempty"`
	Quantity  *int64   `json:"quantity,omitempty"`
	NetValue  *float64 `json:"net_value,omitempty"`
	SaleValue *float64 `json:"sale_value,omitempty"`
}

func (rt *Router) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := rt.Inventory.UpdateProduct(r.Context(), userID, r.PathValue("productID"), service.ProductUpdate{
		Code:      req.Code,
		Name:      req.Name,
		Quantity:  req.Quantity,
		NetValue:  req.NetValue,
		SaleValue: req.SaleValue,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

func (rt *Router) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := rt.Inventory.DeleteProduct(r.Context(), userID, r.PathValue("productID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	TotalProducts int               `json:"total_products"`
	TotalNetValue float64           `json:"total_net_value"`
	TotalProfit   float64           `json:"total_profit"`
	OutOfStock    []productResponse `json:"out_of_stock"`
}

// handleInventorySummary aggregates the inventory on demand. A non-empty
// out_of_stock list is the stock alert the UI keeps showing until resolved.
func (rt *Router) handleInventorySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	summary, err := rt.Inventory.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := summaryResponse{
		TotalProducts: summary.TotalProducts,
		TotalNetValue: summary.TotalNetValue,
		TotalProfit:   summary.TotalProfit,
		OutOfStock:    make([]productResponse, 0, len(summary.OutOfStock)),
	}
	for _, p := range summary.OutOfStock {
		out.OutOfStock = append(out.OutOfStock, toProductResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
