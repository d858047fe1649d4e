package handler

import (
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderCreateRequest struct {
	ItemID int64 `json:"item_id"`
	Count  int64 `json:"count"`
}

type MultiOrderCreateRequest struct {
	Lines []OrderCreateRequest `json:"lines"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/order", h.create)
	g.POST("/orders", h.createMulti)
	g.GET("/orders", h.history)
	g.POST("/order/:id/cancel", h.cancel)
	g.DELETE("/order/:id/items/:itemId", h.removeItem)
}

func (h *OrderHandler) create(c echo.Context) error {
	email, ok := getEmailFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	orderID, err := h.uc.PlaceOrder(c.Request().Context(), email, usecase.PlaceOrderInput{
		ItemID: req.ItemID,
		Count:  req.Count,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"order_id": orderID})
}

// 複数商品の一括注文
func (h *OrderHandler) createMulti(c echo.Context) error {
	email, ok := getEmailFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req MultiOrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	lines := make([]usecase.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, usecase.OrderLine{ItemID: l.ItemID, Count: l.Count})
	}

	orderID, err := h.uc.PlaceMultiOrder(c.Request().Context(), email, lines)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"order_id": orderID})
}

// 注文履歴（新しい順・4件ずつ・pageは0始まり）
func (h *OrderHandler) history(c echo.Context) error {
	email, ok := getEmailFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 0
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	out, err := h.uc.ListOrderHistory(c.Request().Context(), email, page)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// キャンセルは購入者本人だけ
func (h *OrderHandler) cancel(c echo.Context) error {
	email, ok := getEmailFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	owned, err := h.uc.ValidateOwnership(c.Request().Context(), orderID, email)
	if err != nil {
		return writeError(c, err)
	}
	if !owned {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "no permission to cancel this order"})
	}

	if err := h.uc.CancelOrder(c.Request().Context(), orderID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"order_id": orderID})
}

func (h *OrderHandler) removeItem(c echo.Context) error {
	email, ok := getEmailFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	orderItemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.RemoveOrderItem(c.Request().Context(), email, orderID, orderItemID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
