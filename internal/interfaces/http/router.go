package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MeasureHandler *MeasureHandler
}

// Router registra las rutas de la API.
// /images/:name se registra antes que /:customer_code/list para que los
// nombres de imagen no se capturen como código de cliente.
func Router(app *fiber.App, deps RouterDeps) {
	h := deps.MeasureHandler

	app.Post("/upload", h.Upload)
	app.Patch("/confirm", h.Confirm)
	app.Get("/images/:name", h.Image)
	app.Get("/:customer_code/list", h.List)
}
