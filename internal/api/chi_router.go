// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/skillswap/internal/auth"
	"github.com/tomtom215/skillswap/internal/authz"
	"github.com/tomtom215/skillswap/internal/middleware"
)

// slowRequestThreshold is the duration above which the access log warns.
const slowRequestThreshold = 2 * time.Second

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router. The enforcer decides role access to the
// authenticated routes.
func NewRouter(handler *Handler, enforcer *authz.Enforcer) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromServer(&handler.config.Server)),
		auth:          auth.NewMiddleware(handler.jwtManager),
		authz:         authz.NewMiddleware(enforcer),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.AccessLog(slowRequestThreshold))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// ========================
		// Health Endpoints
		// ========================
		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		// ========================
		// Authentication Endpoints
		// ========================
		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())
			r.Post("/register", h.Register)
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Post("/password/send-code", h.SendResetCode)
			r.Post("/password/verify-code", h.VerifyResetCode)
			r.Post("/password/reset", h.ResetPassword)
		})

		// ========================
		// Public Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/certificates/verify/{code}", h.VerifyCertificate)
		})
		r.With(router.chiMiddleware.RateLimitWebhook()).Post("/payments/webhook", h.StripeWebhook)

		// ========================
		// Authenticated Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.auth.Authenticate)
			r.Use(router.authz.Authorize)

			router.registerAccountRoutes(r)
			router.registerCoinRoutes(r)
			router.registerCatalogRoutes(r)
			router.registerLearningRoutes(r)
			router.registerRoadmapRoutes(r)
			router.registerCommunityRoutes(r)
			router.registerMessagingRoutes(r)
			router.registerInternshipRoutes(r)
			router.registerPaymentRoutes(r)
			router.registerAdminRoutes(r)

			r.Get("/ws", h.WebSocket)
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

func (router *Router) registerAccountRoutes(r chi.Router) {
	h := router.handler
	r.Route("/me", func(r chi.Router) {
		r.Get("/", h.Me)
		r.Put("/", h.UpdateMe)
		r.Delete("/", h.DeleteMe)
		r.Get("/skills", h.MySkills)
		r.Get("/internships", h.MyInternships)
	})
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/skills", h.GetUserSkills)
	})
	r.Route("/calendar/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/{id}", h.GetEvent)
		r.Put("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
	})
}

func (router *Router) registerCoinRoutes(r chi.Router) {
	h := router.handler
	r.Get("/coins/balance", h.Balance)
	r.Get("/coins/history", h.CoinHistory)
	r.Get("/transfers", h.ListTransfers)
	r.Post("/transfers", h.CreateTransfer)
}

func (router *Router) registerCatalogRoutes(r chi.Router) {
	h := router.handler
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/with-courses", h.CategoriesWithCourses)
	r.Get("/courses", h.ListCourses)
	r.Get("/courses/{code}/skills", h.ListCourseSkills)
	r.Get("/search", h.Search)

	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.ListSkills)
		r.Post("/", h.CreateSkill)
		r.Get("/{id}", h.GetSkill)
		r.Put("/{id}", h.UpdateSkill)
		r.Delete("/{id}", h.DeleteSkill)
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Post("/", h.SubmitRating)
		r.Get("/top", h.TopRated)
		r.Get("/{itemType}/{itemID}", h.ItemRatings)
		r.Get("/{itemType}/{itemID}/mine", h.MyRating)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", h.ListFavorites)
		r.Get("/{skillID}", h.CheckFavorite)
		r.Post("/{skillID}", h.AddFavorite)
		r.Delete("/{skillID}", h.RemoveFavorite)
	})
}

func (router *Router) registerLearningRoutes(r chi.Router) {
	h := router.handler
	r.Route("/skill-requests", func(r chi.Router) {
		r.Post("/", h.CreateSkillRequest)
		r.Get("/check", h.CheckSkillRequest)
		r.Get("/incoming", h.IncomingSkillRequests)
		r.Get("/outgoing", h.OutgoingSkillRequests)
		r.Put("/{id}/status", h.DecideSkillRequest)
		r.Delete("/{id}", h.DeleteSkillRequest)
	})
	r.Route("/learnings", func(r chi.Router) {
		r.Get("/", h.ListLearnings)
		r.Get("/{skillID}", h.GetLearning)
		r.Put("/{skillID}/progress", h.UpdateLearningProgress)
		r.Put("/{skillID}/status", h.SetLearningStatus)
	})
	r.Get("/certificates", h.ListCertificates)
	r.Get("/certificates/{id}", h.GetCertificate)
}

func (router *Router) registerRoadmapRoutes(r chi.Router) {
	h := router.handler
	r.Route("/roadmaps", func(r chi.Router) {
		r.Get("/paths", h.ListPaths)
		r.Get("/paths/{id}", h.GetPath)
		r.Get("/paths/{id}/levels", h.PathLevels)
		r.Get("/paths/{id}/resources", h.PathResources)
		r.Get("/paths/{id}/projects", h.PathProjects)
		r.Get("/paths/{id}/recommendations", h.PathRecommendations)
		r.Get("/me", h.MyRoadmap)
		r.Put("/me", h.SelectPath)
		r.Put("/me/progress", h.UpdateRoadmapProgress)
	})
}

func (router *Router) registerCommunityRoutes(r chi.Router) {
	h := router.handler
	r.Route("/communities", func(r chi.Router) {
		r.Get("/", h.ListCommunities)
		r.Post("/", h.CreateCommunity)
		r.Put("/comments/{commentID}", h.EditComment)
		r.Delete("/comments/{commentID}", h.DeleteComment)
		r.Delete("/resources/{resourceID}", h.DeleteResource)
		r.Get("/{id}", h.GetCommunity)
		r.Put("/{id}", h.UpdateCommunity)
		r.Post("/{id}/join", h.JoinCommunity)
		r.Post("/{id}/leave", h.LeaveCommunity)
		r.Get("/{id}/comments", h.ListComments)
		r.Post("/{id}/comments", h.PostComment)
		r.Get("/{id}/resources", h.ListResources)
		r.Post("/{id}/resources", h.ShareResource)
	})
}

func (router *Router) registerMessagingRoutes(r chi.Router) {
	h := router.handler
	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.SendMessage)
		r.Get("/unread", h.UnreadMessages)
		r.Get("/{contactID}", h.GetThread)
		r.Put("/{contactID}/read", h.MarkThreadRead)
	})
	r.Get("/conversations", h.ListConversations)
}

func (router *Router) registerInternshipRoutes(r chi.Router) {
	h := router.handler
	r.Route("/internships", func(r chi.Router) {
		r.Get("/", h.ListInternships)
		r.Post("/", h.CreateInternship)
		r.Get("/{id}", h.GetInternship)
		r.Post("/{id}/apply", h.ApplyToInternship)
		r.Get("/{id}/applicants", h.ListApplicants)
	})
	r.Get("/applications", h.ListMyApplications)
	r.Put("/applications/{id}/status", h.DecideApplication)
}

func (router *Router) registerPaymentRoutes(r chi.Router) {
	h := router.handler
	r.Get("/payments/packages", h.ListPackages)
	r.Get("/payments/purchases", h.ListPurchases)
	r.With(router.chiMiddleware.RateLimitPayments()).Post("/payments/checkout", h.CreateCheckout)
}

func (router *Router) registerAdminRoutes(r chi.Router) {
	h := router.handler
	r.Route("/admin", func(r chi.Router) {
		r.Post("/coins/grant", h.AdminGrantCoins)
		r.Post("/coins/deduct", h.AdminDeductCoins)
		r.Get("/users/{id}/coins", h.AdminUserCoins)
		r.Get("/ledger/verify", h.AdminVerifyLedger)
	})
}
