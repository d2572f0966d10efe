package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	inframail "github.com/jhoicas/tienda-api/internal/infrastructure/mail"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/internal/infrastructure/payment"
	infrapdf "github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	apigraphql "github.com/jhoicas/tienda-api/internal/interfaces/graphql"
	httpRouter "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/logger"
	"github.com/jhoicas/tienda-api/pkg/metrics"
	"github.com/jhoicas/tienda-api/pkg/password"
)

// repositories puertos de persistencia del backend elegido.
type repositories struct {
	users     repository.UserRepository
	items     repository.ItemRepository
	carts     repository.CartRepository
	orders    repository.OrderRepository
	checkouts repository.CheckoutRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("payment", cfg.Payment.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var repos repositories
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		repos = repositories{store.Users(), store.Items(), store.Carts(), store.Orders(), store.Checkouts()}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		repos = repositories{
			postgres.NewUserRepository(pool),
			postgres.NewItemRepository(pool),
			postgres.NewCartRepository(pool),
			postgres.NewOrderRepository(pool),
			postgres.NewCheckoutRepository(pool),
		}
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("codec de sesión")
	}
	hasher := password.NewHasher(cfg.Security.BcryptCost)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var gateway ports.PaymentGateway
	switch cfg.Payment.Provider {
	case "stripe":
		if cfg.Payment.StripeSecretKey == "" {
			log.Fatal().Msg("PAYMENT_PROVIDER=stripe requiere STRIPE_SECRET")
		}
		gateway = payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.StripeBaseURL,
			time.Duration(cfg.Payment.TimeoutSeconds)*time.Second)
	default:
		if cfg.App.Env == "production" {
			log.Warn().Msg("pasarela falsa activa en producción")
		}
		gateway = payment.NewFakeGateway()
	}

	// Sin MAIL_HOST los correos de reset sólo se registran en el log.
	var mailer ports.Mailer
	if cfg.Mail.Host != "" {
		mailer = inframail.NewSMTPMailer(cfg.Mail, log.Component("mail"))
	} else {
		mailer = inframail.NewLogMailer(log.Component("mail"))
	}

	authUC := auth.NewAuthUseCase(repos.users, hasher, codec, mailer, auth.Config{
		PublicURL: cfg.App.PublicURL(),
		StoreName: cfg.App.Name,
		ResetTTL:  time.Duration(cfg.Security.ResetTokenTTLMinutes) * time.Minute,
	}, log.Component("auth"))
	identity := auth.NewIdentityResolver(codec, repos.users, m, log.Component("identity"))
	userUC := usecase.NewUserUseCase(repos.users, repos.carts)
	itemUC := usecase.NewItemUseCase(repos.items)
	cartUC := usecase.NewCartUseCase(repos.carts, repos.items)
	orderUC := usecase.NewOrderUseCase(repos.orders, repos.users, infrapdf.NewReceiptGenerator(cfg.App.Name))
	checkoutSvc := checkout.NewService(repos.carts, repos.orders, repos.checkouts, gateway,
		cfg.Payment.Currency, m, log.Component("checkout"))

	schema, err := apigraphql.NewSchema(&apigraphql.Resolver{
		Auth:     authUC,
		Users:    userUC,
		Items:    itemUC,
		Carts:    cartUC,
		Orders:   orderUC,
		Checkout: checkoutSvc,
		Metrics:  m,
		Log:      log.Component("graphql"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("esquema GraphQL")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Tienda API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		Schema:         schema,
		Identity:       identity,
		OrderUC:        orderUC,
		Cookie:         cfg.Cookie,
		AllowedOrigins: cfg.App.AllowedOrigins(),
		Log:            log.Component("http"),
		Metrics:        m,
		Gatherer:       reg,
	})

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	reconciler := checkout.NewReconciler(checkoutSvc, log.Component("reconciler"))
	go reconciler.Run(workerCtx,
		time.Duration(cfg.Checkout.ReconcileIntervalSeconds)*time.Second,
		time.Duration(cfg.Checkout.ReconcileAfterSeconds)*time.Second,
	)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
