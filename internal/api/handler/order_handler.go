package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecomstack/commerce-api/internal/api/metrics"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0"`
}

type placeOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderItemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	Items       []orderItemResponse `json:"items"`
	TotalAmount float64             `json:"total_amount"`
	CreatedAt   time.Time           `json:"created_at"`
}

type listOrdersResponse struct {
	Data []orderResponse `json:"data"`
}

// Place handles POST /v1/orders.
//
// @Summary      Place a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      placeOrderRequest  true  "Order lines"
// @Success      201   {object}  orderResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ports.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.service.Place(c.Request().Context(), p, items)
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// List handles GET /v1/orders, returning the caller's own orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListMine(c.Request().Context(), p)
	if err != nil {
		return err
	}

	resp := listOrdersResponse{Data: make([]orderResponse, 0, len(orders))}
	for _, order := range orders {
		resp.Data = append(resp.Data, toOrderResponse(order))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/orders/:id. Ownership is enforced for non-admins.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.service.Get(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		Items:       make([]orderItemResponse, 0, len(order.Items)),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt.UTC(),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse(item))
	}
	return resp
}
