// Package webapi exposes the account and transfer services over HTTP using
// Fiber. The transfer endpoints are asynchronous by design: creating a
// transfer returns 202 and the saga drives it to a terminal status that
// callers poll for.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	accountapi "github.com/amirasaad/banksaga/webapi/account"
	"github.com/amirasaad/banksaga/webapi/common"
	transferapi "github.com/amirasaad/banksaga/webapi/transfer"

	accountsvc "github.com/amirasaad/banksaga/pkg/service/account"
	transfersvc "github.com/amirasaad/banksaga/pkg/service/transfer"
)

// SetupApp builds the Fiber application with all routes and middleware.
func SetupApp(accountSvc *accountsvc.Service, transferSvc *transfersvc.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	accountapi.Routes(app, accountSvc)
	transferapi.Routes(app, transferSvc)

	return app
}
