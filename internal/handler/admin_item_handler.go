package handler

import (
	"io"
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/items の管理者API
type AdminItemHandler struct {
	uc *usecase.ItemUsecase
}

// DI
func NewAdminItemHandler(uc *usecase.ItemUsecase) *AdminItemHandler {
	return &AdminItemHandler{uc: uc}
}

type UpdateItemRequest struct {
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Detail string `json:"detail"`
	Stock  int64  `json:"stock"`
}

func (h *AdminItemHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/items")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.register)
	g.PUT("/:id", h.update)
	g.GET("", h.search)
}

// 商品登録。multipartでフォーム＋画像を受け取る
func (h *AdminItemHandler) register(c echo.Context) error {
	name := c.FormValue("name")
	detail := c.FormValue("detail")

	price, err := strconv.ParseInt(c.FormValue("price"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	}

	stock, err := strconv.ParseInt(c.FormValue("stock"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid stock"})
	}

	uploads, err := readImageUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid images"})
	}

	itemID, err := h.uc.RegisterItem(c.Request().Context(), usecase.RegisterItemInput{
		Name:   name,
		Price:  price,
		Detail: detail,
		Stock:  stock,
		Images: uploads,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"item_id": itemID})
}

func (h *AdminItemHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateItem(c.Request().Context(), id, usecase.UpdateItemInput{
		Name:   req.Name,
		Price:  req.Price,
		Detail: req.Detail,
		Stock:  req.Stock,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"item_id": id})
}

// 管理者の商品検索。公開側と同じ条件を使う
func (h *AdminItemHandler) search(c echo.Context) error {
	in, err := bindItemSearchInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.SearchItems(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// multipartの"images"を全部読み込む
func readImageUploads(c echo.Context) ([]usecase.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// 画像なしでも登録は通す
		return nil, nil
	}

	files := form.File["images"]
	uploads := make([]usecase.ImageUpload, 0, len(files))

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, usecase.ImageUpload{
			OriginalName: fh.Filename,
			Data:         data,
		})
	}

	return uploads, nil
}
