package main

import (
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/infra/storage"
	"shop/internal/server"
	"shop/internal/usecase"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	// アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(memberID int64, email string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   memberID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもいい（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Member{},
		&model.Item{},
		&model.ItemImage{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	// Repository（GORM実装）生成
	memberRepo := infraRepo.NewMemberGormRepository(gormDB)
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	itemImageRepo := infraRepo.NewItemImageGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// usecaseに渡す部品
	clock := &realClock{}

	// bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	// JWT issuer
	issuer := newJWTIssuer(cfg.JWTSecret)

	// 画像の保存先
	imageStore, err := storage.NewLocalImageStore(cfg.ItemImageDir, cfg.ItemImageURL)
	if err != nil {
		panic(err)
	}

	// Usecase生成
	registerUC := auth.NewRegisterMemberUsecase(memberRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(memberRepo, verifier, issuer, clock)
	itemUC := usecase.NewItemUsecase(itemRepo, itemImageRepo, imageStore)
	orderUC := usecase.NewOrderUsecase(txManager, clock)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, itemRepo, itemImageRepo, memberRepo, txManager, orderUC)

	// Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC)
	itemH := handler.NewItemHandler(itemUC)
	adminItemH := handler.NewAdminItemHandler(itemUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC)

	// Server起動
	e := server.New(cfg, authH, itemH, adminItemH, cartH, orderH)

	addr := cfg.Port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(e, addr); err != nil {
		panic(err)
	}
}
