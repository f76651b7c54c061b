package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"webucket/internal/config"
	"webucket/internal/middleware"
	"webucket/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler builds the router and wires every endpoint to its handler.
func NewHandler(
	userService *service.UserService,
	bucketService *service.BucketService,
	itemService *service.ItemService,
	imageService *service.ImageService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(cfg.AuthSecret))

	userHandler := NewUserHandler(userService, logger, cfg)
	bucketHandler := NewBucketHandler(bucketService, userService, logger)
	itemHandler := NewItemHandler(itemService, userService, logger)
	imageHandler := NewImageHandler(imageService, userService, logger, cfg)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Auth & profile
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Get("/auth/me", userHandler.Me)
		r.Patch("/users/me", userHandler.UpdateMe)
		r.Put("/users/me/image", imageHandler.SetUserImage)
		r.Get("/users/{userID}/image", imageHandler.GetUserImage)

		// Buckets
		r.Post("/buckets", bucketHandler.Create)
		r.Get("/buckets", bucketHandler.List)
		r.Get("/buckets/{bucketID}", bucketHandler.Get)
		r.Patch("/buckets/{bucketID}", bucketHandler.Update)
		r.Delete("/buckets/{bucketID}", bucketHandler.Delete)
		r.Post("/buckets/{bucketID}/members", bucketHandler.AddMember)
		r.Get("/buckets/{bucketID}/members", bucketHandler.ListMembers)
		r.Put("/buckets/{bucketID}/image", imageHandler.SetBucketImage)
		r.Get("/buckets/{bucketID}/image", imageHandler.GetBucketImage)

		// Items
		r.Post("/buckets/{bucketID}/items", itemHandler.Add)
		r.Get("/items/{itemID}", itemHandler.Get)
		r.Patch("/items/{itemID}", itemHandler.Update)
		r.Delete("/items/{itemID}", itemHandler.Delete)
		r.Post("/items/{itemID}/images", imageHandler.AddItemImage)
		r.Get("/items/{itemID}/images", imageHandler.GetItemImagesZip)
		r.Get("/items/{itemID}/images/{imageID}", imageHandler.GetItemImage)
	})

	return &Handler{Router: r}
}
