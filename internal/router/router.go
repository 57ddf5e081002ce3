package router

import (
	"fmt"
	"net/http"

	"inkwell/internal/config"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/services"
	"inkwell/internal/utils"
	"inkwell/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App bundles the HTTP engine with the services main needs at startup.
type App struct {
	Engine   *gin.Engine
	Users    *repository.CredentialStore
	Content  *repository.ContentStore
	Sessions *services.SessionService
}

// New wires stores, services and handlers into a gin engine.
func New(cfg *config.Config, db *gorm.DB) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	users := repository.NewCredentialStore(db, utils.NewPasswordHasher(cfg.PasswordHashIterations), cfg.AdminEmail)
	content := repository.NewContentStore(db)
	sessionService := services.NewSessionService(db, cfg.SessionTTL())
	rendered, err := utils.NewCommentCache(utils.DefaultCommentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create comment cache: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	renderer, err := loadTemplates(web.Templates, cfg.SiteName)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	r.StaticFS("/static", http.FS(web.Static()))

	r.Use(middleware.LoadUser(sessionService))

	RegisterRoutes(r, Handlers{
		Auth:  handlers.NewAuthHandler(users, sessionService),
		Post:  handlers.NewPostHandler(content, rendered),
		Admin: handlers.NewAdminHandler(content, users, rendered),
		Page:  handlers.NewPageHandler(),
		SEO:   handlers.NewSEOHandler(content, cfg.SiteURL),
	})

	return &App{Engine: r, Users: users, Content: content, Sessions: sessionService}, nil
}

type Handlers struct {
	Auth  *handlers.AuthHandler
	Post  *handlers.PostHandler
	Admin *handlers.AdminHandler
	Page  *handlers.PageHandler
	SEO   *handlers.SEOHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// Public Routes
	r.GET("/", h.Post.List)
	r.GET("/post/:id", h.Post.Detail)
	r.POST("/post/:id", h.Post.CreateComment) // anonymous visitors get redirected to /login
	r.GET("/about", h.Page.About)
	r.GET("/contact", h.Page.Contact)
	r.GET("/robots.txt", h.SEO.RobotsTxt)
	r.GET("/sitemap.xml", h.SEO.SitemapXML)

	r.GET("/register", h.Auth.ShowRegister)
	r.POST("/register", h.Auth.Register)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	// Admin Routes
	admin := r.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/new-post", h.Admin.ShowCreate)
		admin.POST("/new-post", h.Admin.Create)
		admin.GET("/edit-post/:id", h.Admin.ShowEdit)
		admin.POST("/edit-post/:id", h.Admin.Update)
		admin.GET("/delete/:id", h.Admin.Delete)
	}

	r.NoRoute(handlers.NotFound)
}
