package server

import (
	"shop/internal/config"
	"shop/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newは全ルートを登録したechoを返す
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	itemH *handler.ItemHandler,
	adminItemH *handler.AdminItemHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// 保存した商品画像を配信
	e.Static(cfg.ItemImageURL, cfg.ItemImageDir)

	authH.RegisterRoutes(e)
	itemH.RegisterRoutes(e)
	adminItemH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
