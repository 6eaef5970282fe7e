package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/external/abstractapi"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/external/midtrans"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/external/resend"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/config"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/db"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/metrics"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/repository"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	middleware.Init(cfg.JWTSecret)

	// ======================
	// INFRA
	// ======================
	ctx := context.Background()
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	var emailValidator services.EmailValidator
	if cfg.UseEmailReputation {
		emailValidator, err = abstractapi.NewAbstractReputationValidator(cfg.AbstractEmailAPIKey)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		emailValidator = services.NewLocalValidator()
	}

	var mailer services.EmailSender
	if cfg.ResendAPIKey != "" {
		mailer, err = resend.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, outgoing email disabled")
	}

	snapClient := midtrans.NewSnapClient(cfg.MidtransServerKey)

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)
	tourRepo := repository.NewTourRepository(pool)
	blogRepo := repository.NewBlogRepository(pool)
	testimonialRepo := repository.NewTestimonialRepository(pool)
	newsletterRepo := repository.NewNewsletterRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// ======================
	// SERVICES
	// ======================
	collector := metrics.NewCollector()

	authSvc := services.NewAuthService(userRepo, otpRepo, emailValidator, mailer, cfg.AdminEmail, cfg.AdminPassword)
	authSvc.Metrics = collector
	userSvc := services.NewUserService(userRepo)
	tourSvc := services.NewTourService(tourRepo)
	blogSvc := services.NewBlogService(blogRepo)
	testimonialSvc := services.NewTestimonialService(testimonialRepo, tourRepo)
	newsletterSvc := services.NewNewsletterService(newsletterRepo, emailValidator)
	bookingSvc := services.NewBookingService(bookingRepo, tourRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, bookingRepo, tourRepo, userRepo, snapClient, mailer, cfg.MidtransServerKey)
	mediaSvc := services.NewMediaService(cfg.S3Region, cfg.S3Bucket, cfg.S3BaseEndpoint, cfg.S3AccessKey, cfg.S3SecretKey)

	authenticator := middleware.NewAuthenticator(userRepo)
	authenticator.Metrics = collector
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
	defer limiter.Stop()

	// expired one-time codes self-delete, like a store-level TTL index would
	go sweepExpiredOTPs(ctx, otpRepo, cfg.OTPSweepInterval)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(collector.Middleware())

	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc, authenticator, limiter, cfg.TokenTTL)
	registerUserRoutes(api, userSvc, authSvc, authenticator)
	registerTourRoutes(api, tourSvc, authenticator)
	registerBlogRoutes(api, blogSvc, authenticator)
	registerTestimonialRoutes(api, testimonialSvc, authenticator)
	registerNewsletterRoutes(api, newsletterSvc, authenticator, limiter)
	registerBookingRoutes(api, bookingSvc, authenticator)
	registerPaymentRoutes(api, paymentSvc, authenticator)
	registerMediaRoutes(api, mediaSvc, authenticator)

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.HTTPPort))
}

func sweepExpiredOTPs(ctx context.Context, otps *repository.OTPRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := otps.DeleteExpired(ctx); err != nil {
				log.Printf("otp sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("otp sweep removed %d expired codes", n)
			}
		}
	}
}
