package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/auth"
	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sandbox *sandbox.Service
	JWT     config.JWTConfig
	Log     zerolog.Logger
}

// NewApp construye la aplicación Fiber del sandbox con recover, /health y las rutas de la API.
func NewApp(name string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 << 20,
		ErrorHandler: ErrorHandler(deps.Log),
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Sin StrictRouting, "/products" y "/products/" son la misma ruta.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authUC := auth.NewAuthUseCase(deps.Sandbox, auth.JWTConfig{
		Secret:     deps.JWT.Secret,
		ExpMinutes: deps.JWT.Expiration,
		Issuer:     deps.JWT.Issuer,
	}, deps.Log)
	authHandler := NewAuthHandler(authUC, deps.Log)
	api.Post("/auth/login/", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWT.Secret))

	for _, resource := range []string{sandbox.Categories, sandbox.Products, sandbox.Customers, sandbox.Orders, sandbox.OrderItems} {
		h := NewResourceHandler(deps.Sandbox, resource, deps.Log)
		group := protected.Group("/" + resource)
		if sandbox.Exportable(resource) {
			group.Get("/export-csv/", h.ExportCSV)
		}
		group.Get("/", h.List)
		group.Post("/", h.Create)
		group.Get("/:id/", h.GetByID)
		group.Put("/:id/", h.Update)
		group.Patch("/:id/", h.PartialUpdate)
		group.Delete("/:id/", h.Delete)
	}

	// Usuarias: baja lógica, reactivación y estadísticas
	staff := NewStaffHandler(deps.Sandbox, deps.Log)
	usuarias := protected.Group("/" + sandbox.StaffUsers)
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)
	usuarias.Get("/export-csv/", staff.ExportCSV)
	usuarias.Get("/statistics/", staff.Statistics)
	usuarias.Get("/", staff.List)
	usuarias.Post("/", managers, staff.Create)
	usuarias.Get("/:id/", staff.GetByID)
	usuarias.Put("/:id/", managers, staff.Update)
	usuarias.Patch("/:id/", managers, staff.PartialUpdate)
	usuarias.Delete("/:id/", managers, staff.Delete)
	usuarias.Post("/:id/reactivate/", managers, staff.Reactivate)
}
