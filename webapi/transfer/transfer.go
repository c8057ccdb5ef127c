// Package transfer exposes the transfer service over HTTP.
package transfer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	transfersvc "github.com/amirasaad/banksaga/pkg/service/transfer"
	"github.com/amirasaad/banksaga/webapi/common"
)

// Routes registers HTTP routes for transfer operations.
//
// Routes:
//   - POST /transfer      : Start a transfer workflow (asynchronous).
//   - GET  /transfer/:id  : Retrieve the replayed transfer state.
func Routes(app *fiber.App, svc *transfersvc.Service) {
	app.Post("/transfer", CreateTransfer(svc))
	app.Get("/transfer/:id", GetTransfer(svc))
}

// CreateTransfer returns a Fiber handler that starts a transfer workflow.
// It answers 202: whether the transfer completes or fails is decided by the
// saga, and callers observe the outcome via GET /transfer/:id.
func CreateTransfer(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		id, err := svc.CreateTransfer(
			c.UserContext(),
			input.SourceAccountID,
			input.DestinationAccountID,
			input.Amount,
		)
		if err != nil {
			log.Errorf("Failed to create transfer: %v", err)
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to create transfer", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusAccepted, "Transfer requested",
			fiber.Map{"id": id})
	}
}

// GetTransfer returns a Fiber handler that replays the transfer stream and
// returns the current state, including the terminal status once the saga
// finishes.
func GetTransfer(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to get transfer", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer", TransferResponse{
			ID:                   t.ID,
			SourceAccountID:      t.SourceAccountID,
			DestinationAccountID: t.DestinationAccountID,
			Amount:               t.Amount,
			Status:               string(t.Status),
		})
	}
}
